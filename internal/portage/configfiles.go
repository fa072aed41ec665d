package portage

import (
	"fmt"
	"strings"

	"github.com/obentoo/portagetool/internal/common/ebuild"
)

// AcceptAllKeywords accepts every keyword, including live ebuilds
const AcceptAllKeywords = "**"

// KeywordLine returns the package.accept_keywords entry for pkg.
// A versioned atom without an operator gets "=" so portage treats it as an
// exact version. Unversioned atoms and sets are written as given.
func KeywordLine(pkg string) string {
	pkg = strings.TrimSpace(pkg)
	if a, err := ebuild.ParseAtom(pkg); err == nil && a.Version != "" && a.Operator == "" {
		pkg = "=" + pkg
	}
	return pkg + " " + AcceptAllKeywords
}

// AcceptKeyword unmasks every keyword for pkg in package.accept_keywords
func (c *Client) AcceptKeyword(pkg string) (*WriteResult, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}
	return c.writeConfigLine(AcceptKeywordsFile, KeywordLine(pkg))
}

// Mask adds pkg to package.mask
func (c *Client) Mask(pkg string) (*WriteResult, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}
	return c.writeConfigLine(MaskFile, strings.TrimSpace(pkg))
}

// SetUseFlag writes "pkg flag" to package.use. flag may carry a leading "-"
// to disable it; the bare name must be a USE flag of the installed package.
func (c *Client) SetUseFlag(pkg, flag string) (*WriteResult, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}

	flag = strings.TrimSpace(flag)
	name := strings.TrimPrefix(strings.TrimPrefix(flag, "-"), "+")
	if name == "" {
		return nil, fmt.Errorf("%w: empty flag", ErrUnknownUseFlag)
	}

	known, err := c.UseFlags(pkg)
	if err != nil {
		return nil, err
	}
	found := false
	for _, k := range known {
		if k == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s for %s", ErrUnknownUseFlag, name, pkg)
	}

	return c.writeConfigLine(UseFile, strings.TrimSpace(pkg)+" "+flag)
}
