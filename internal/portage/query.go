package portage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/obentoo/portagetool/internal/common/ebuild"
	"github.com/obentoo/portagetool/internal/common/runner"
)

// pythonTargetPrefix marks an enabled PYTHON_TARGETS flag in equery uses output
const pythonTargetPrefix = "+python_targets_python"

// PythonUseDep is appended to dependency lines of packages built for Python
const PythonUseDep = "[${PYTHON_USEDEP}]"

// UseFlag is a USE flag and whether it is enabled for the installed package
type UseFlag struct {
	Name    string
	Enabled bool
}

// splitLines returns the trimmed, non-empty lines of s
func splitLines(s string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Categories returns the category list of the configured repository plus the
// configured extra categories.
func (c *Client) Categories() ([]string, error) {
	out, err := c.exec.Output(runner.Command{
		Name: Portageq,
		Args: []string{"get_repo_path", "/", c.cfg.Portage.Repo},
	})
	if err != nil {
		return nil, err
	}

	repoPath := strings.TrimSpace(out)
	if repoPath == "" {
		return nil, fmt.Errorf("%w: %s", ErrRepoNotFound, c.cfg.Portage.Repo)
	}
	c.log.Debug("repository %s at %s", c.cfg.Portage.Repo, repoPath)

	categoriesPath := filepath.Join(repoPath, "profiles", "categories")
	data, err := os.ReadFile(categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	seen := make(map[string]bool)
	var categories []string
	add := func(cat string) {
		if cat == "" || strings.HasPrefix(cat, "#") || seen[cat] {
			return
		}
		seen[cat] = true
		categories = append(categories, cat)
	}

	for _, line := range splitLines(string(data)) {
		add(line)
	}
	for _, extra := range c.cfg.Categories.Extra {
		add(strings.TrimSpace(extra))
	}

	return categories, nil
}

// InstalledVersions globs pattern and returns the version suffix of every
// match (the text after the last "-"), newest first.
func (c *Client) InstalledVersions(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = c.cfg.Latest.Glob
	}
	c.log.Debug("glob %s", pattern)

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}

	versions := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		i := strings.LastIndex(base, "-")
		versions = append(versions, base[i+1:])
	}
	c.log.Debug("versions %v", versions)

	return ebuild.SortVersions(versions), nil
}

// LatestVersion returns the newest version found by InstalledVersions
func (c *Client) LatestVersion(pattern string) (string, error) {
	versions, err := c.InstalledVersions(pattern)
	if err != nil {
		return "", err
	}
	return ebuild.Latest(versions)
}

// ResolvePackage returns the installed category/name-version atoms matching pkg
func (c *Client) ResolvePackage(pkg string) ([]string, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}

	out, err := c.exec.Output(runner.Command{
		Name: Equery,
		Args: []string{"--quiet", "list", pkg},
	})
	if err != nil {
		return nil, err
	}

	resolved := splitLines(out)
	c.log.Debug("resolved %s to %v", pkg, resolved)
	if len(resolved) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, pkg)
	}
	return resolved, nil
}

// ResolveNewest resolves pkg and returns the newest installed version
func (c *Client) ResolveNewest(pkg string) (*ebuild.Atom, error) {
	resolved, err := c.ResolvePackage(pkg)
	if err != nil {
		return nil, err
	}
	return ebuild.Newest(resolved)
}

// UseFlagStates returns the USE flags of pkg with their enabled state
func (c *Client) UseFlagStates(pkg string) ([]UseFlag, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}

	out, err := c.exec.Output(runner.Command{
		Name: Equery,
		Args: []string{"--quiet", "uses", pkg},
	})
	if err != nil {
		return nil, err
	}

	return ParseUseFlags(out), nil
}

// ParseUseFlags parses "+flag" / "-flag" lines from equery uses.
// Lines without a marker (headers, legends) are skipped.
func ParseUseFlags(out string) []UseFlag {
	var flags []UseFlag
	for _, line := range splitLines(out) {
		marker := line[0]
		if marker != '+' && marker != '-' {
			continue
		}
		name := strings.TrimSpace(line[1:])
		if name == "" {
			continue
		}
		flags = append(flags, UseFlag{Name: name, Enabled: marker == '+'})
	}
	return flags
}

// UseFlags returns the USE flag names of pkg without their +/- markers
func (c *Client) UseFlags(pkg string) ([]string, error) {
	states, err := c.UseFlagStates(pkg)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(states))
	for i, f := range states {
		names[i] = f.Name
	}
	return names, nil
}

// HasPythonTargets reports whether pkg is built with any python_targets_python* flag enabled
func (c *Client) HasPythonTargets(pkg string) (bool, error) {
	if err := checkPackage(pkg); err != nil {
		return false, err
	}

	out, err := c.exec.Output(runner.Command{
		Name: Equery,
		Args: []string{"--quiet", "uses", pkg},
	})
	if err != nil {
		return false, err
	}

	for _, line := range splitLines(out) {
		if strings.HasPrefix(line, pythonTargetPrefix) {
			return true, nil
		}
	}
	return false, nil
}

// DependencyLine returns an ebuild DEPEND entry for pkg: a tab, the resolved
// atom, and [${PYTHON_USEDEP}] when the package has Python targets enabled.
func (c *Client) DependencyLine(pkg string) (string, error) {
	atom, err := c.ResolveNewest(pkg)
	if err != nil {
		return "", err
	}
	resolved := atom.CPV()

	line := "\t" + resolved
	python, err := c.HasPythonTargets(resolved)
	if err != nil {
		return "", err
	}
	if python {
		line += PythonUseDep
	}

	c.log.Debug("dependency line %q", line)
	return line, nil
}

// Files returns the files installed by pkg
func (c *Client) Files(pkg string) ([]string, error) {
	if err := checkPackage(pkg); err != nil {
		return nil, err
	}

	out, err := c.exec.Output(runner.Command{
		Name: Qlist,
		Args: []string{"--exact", pkg},
	})
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}
