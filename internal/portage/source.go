package portage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/obentoo/portagetool/internal/common/ebuild"
	"github.com/obentoo/portagetool/internal/common/output"
	"github.com/obentoo/portagetool/internal/common/runner"
)

// ebuildPhases are run in order to get a configured source tree
var ebuildPhases = []string{"clean", "unpack", "prepare", "configure"}

// PatchedSource describes an unpacked, patched and configured source tree
type PatchedSource struct {
	Atom    *ebuild.Atom
	Ebuild  string // path of the ebuild file that was run
	WorkDir string // <tmpdir>/<category>/<name-version>/work
}

// ParseLocation returns the value of the "Location:" line of equery meta output
func ParseLocation(out string) (string, error) {
	for _, line := range splitLines(out) {
		key, value, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(key) != "Location" {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
	}
	return "", ErrNoLocation
}

// PatchedSource runs the ebuild phases up to configure for the installed
// version of pkg and makes the resulting work directory world-readable.
func (c *Client) PatchedSource(pkg string) (*PatchedSource, error) {
	atom, err := c.ResolveNewest(pkg)
	if err != nil {
		return nil, err
	}
	resolved := atom.CPV()

	out, err := c.exec.Output(runner.Command{
		Name: Equery,
		Args: []string{"-q", "meta", resolved},
	})
	if err != nil {
		return nil, err
	}
	location, err := ParseLocation(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resolved, err)
	}

	path := filepath.Join(location, atom.PF()+".ebuild")
	eb, err := ebuild.ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if got := eb.Atom().CPV(); got != resolved {
		return nil, fmt.Errorf("%s: %w: ebuild is for %s", path, ebuild.ErrInvalidEbuildPath, got)
	}
	c.log.Debug("ebuild %s", path)

	for _, phase := range ebuildPhases {
		c.log.Info("Running %s phase for %s", phase, output.FormatPackage(resolved))
		cmd := c.privileged(runner.Command{Name: EbuildCmd, Args: []string{path, phase}})
		if err := c.exec.Run(cmd); err != nil {
			return nil, fmt.Errorf("ebuild %s: %w", phase, err)
		}
	}

	buildDir := filepath.Join(c.cfg.Portage.TmpDir, resolved)
	chmod := c.privileged(runner.Command{Name: Chmod, Args: []string{"-R", "a+rx", buildDir}})
	if err := c.exec.Run(chmod); err != nil {
		return nil, err
	}

	return &PatchedSource{
		Atom:    atom,
		Ebuild:  path,
		WorkDir: filepath.Join(buildDir, "work"),
	}, nil
}
