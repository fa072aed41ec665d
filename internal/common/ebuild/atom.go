package ebuild

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidAtom       = errors.New("invalid package atom")
	ErrInvalidPackage    = errors.New("package must be a set (@name) or contain a category (category/name)")
	ErrInvalidEbuildPath = errors.New("invalid ebuild path format")
)

// operators in match order: two-character operators first
var operators = []string{">=", "<=", "=", "<", ">", "~"}

// pfRegex splits name-version. The name is matched lazily so that
// "firefox-bin-120.0" yields name "firefox-bin", version "120.0".
var pfRegex = regexp.MustCompile(`^(.+?)-(\d+(?:\.\d+)*[a-z]?(?:_(?:alpha|beta|pre|rc|p)\d*)*(?:-r\d+)?)$`)

// Atom is a parsed package atom such as ">=dev-lang/python-3.12.7-r1:3.12::gentoo"
type Atom struct {
	Operator string // "", "=", ">=", ...
	Category string // e.g., "dev-lang"
	Name     string // e.g., "python"
	Version  string // e.g., "3.12.7-r1", empty when unversioned
	Slot     string // e.g., "3.12"
	Repo     string // e.g., "gentoo"
}

// ParseAtom parses [op]category/name[-version][:slot][::repo]
func ParseAtom(s string) (*Atom, error) {
	s = strings.TrimSpace(s)
	a := &Atom{}

	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			a.Operator = op
			s = s[len(op):]
			break
		}
	}

	if i := strings.Index(s, "::"); i >= 0 {
		a.Repo = s[i+2:]
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		a.Slot = s[i+1:]
		s = s[:i]
	}

	category, rest, found := strings.Cut(s, "/")
	if !found || category == "" || rest == "" || strings.Contains(rest, "/") {
		return nil, ErrInvalidAtom
	}
	a.Category = category

	if m := pfRegex.FindStringSubmatch(rest); m != nil {
		a.Name = m[1]
		a.Version = m[2]
	} else {
		a.Name = rest
	}

	// Version operators need a version to compare against
	if a.Operator != "" && a.Version == "" {
		return nil, ErrInvalidAtom
	}

	return a, nil
}

// Key returns the category/name format
func (a *Atom) Key() string {
	return a.Category + "/" + a.Name
}

// PF returns name-version, or just the name when unversioned
func (a *Atom) PF() string {
	if a.Version == "" {
		return a.Name
	}
	return a.Name + "-" + a.Version
}

// CPV returns category/name-version
func (a *Atom) CPV() string {
	return a.Category + "/" + a.PF()
}

// String returns the atom in portage syntax
func (a *Atom) String() string {
	s := a.Operator + a.CPV()
	if a.Slot != "" {
		s += ":" + a.Slot
	}
	if a.Repo != "" {
		s += "::" + a.Repo
	}
	return s
}

// ValidatePackageArg checks a user-supplied package argument.
// Sets (@world) are accepted as-is; anything else needs a category.
func ValidatePackageArg(pkg string) error {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return ErrInvalidPackage
	}
	if strings.HasPrefix(pkg, "@") {
		if len(pkg) == 1 {
			return ErrInvalidPackage
		}
		return nil
	}
	if !strings.Contains(pkg, "/") {
		return ErrInvalidPackage
	}
	return nil
}

// Newest returns the atom with the highest version among cpvs
func Newest(cpvs []string) (*Atom, error) {
	var newest *Atom
	for _, s := range cpvs {
		a, err := ParseAtom(s)
		if err != nil {
			return nil, err
		}
		if newest == nil || CompareVersions(a.Version, newest.Version) > 0 {
			newest = a
		}
	}
	if newest == nil {
		return nil, ErrNoVersions
	}
	return newest, nil
}

// ebuildPathRegex matches: category/package/package-version.ebuild
var ebuildPathRegex = regexp.MustCompile(`^([^/]+)/([^/]+)/([^/]+)\.ebuild$`)

// Ebuild represents a parsed ebuild file path
type Ebuild struct {
	Category string // e.g., "app-misc"
	Package  string // e.g., "hello"
	Version  string // e.g., "1.0", "1.0_rc1", "1.0-r1"
}

// ParsePath parses an ebuild path ending in category/package/package-version.ebuild.
// Leading directories (a repository location) are ignored.
func ParsePath(path string) (*Ebuild, error) {
	path = strings.ReplaceAll(path, "\\", "/")
	parts := strings.Split(strings.TrimPrefix(path, "./"), "/")
	if len(parts) < 3 {
		return nil, ErrInvalidEbuildPath
	}
	tail := strings.Join(parts[len(parts)-3:], "/")

	m := ebuildPathRegex.FindStringSubmatch(tail)
	if m == nil {
		return nil, ErrInvalidEbuildPath
	}

	pf := pfRegex.FindStringSubmatch(m[3])
	// The filename prefix must match the package directory name
	if pf == nil || pf[1] != m[2] {
		return nil, ErrInvalidEbuildPath
	}

	return &Ebuild{
		Category: m[1],
		Package:  m[2],
		Version:  pf[2],
	}, nil
}

// Atom returns the exact-version atom for this ebuild
func (e *Ebuild) Atom() *Atom {
	return &Atom{Operator: "=", Category: e.Category, Name: e.Package, Version: e.Version}
}

// String returns the ebuild path format: category/package/package-version.ebuild
func (e *Ebuild) String() string {
	return e.Category + "/" + e.Package + "/" + e.Package + "-" + e.Version + ".ebuild"
}
