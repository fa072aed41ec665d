package portage

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

var (
	ErrSetNotFound = errors.New("package set not found")
	ErrEmptySet    = errors.New("package set has no packages")
)

// Set is a named group of packages installed together
type Set struct {
	Packages       []string `toml:"packages"`
	AcceptKeywords bool     `toml:"accept_keywords"`
	Force          bool     `toml:"force"`
	UpgradeOnly    bool     `toml:"upgrade_only"`
}

// Sets maps set names to their definitions
type Sets map[string]Set

// LoadSets reads package sets from a TOML file. A missing file yields no sets.
func LoadSets(path string) (Sets, error) {
	sets := Sets{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return sets, nil
	}

	md, err := toml.DecodeFile(path, &sets)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to parse %s: unknown key %s", path, undecoded[0])
	}

	for name, set := range sets {
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("set %q: %w", name, err)
		}
	}
	return sets, nil
}

// Validate checks that every package of the set is a valid argument
func (s Set) Validate() error {
	if len(s.Packages) == 0 {
		return ErrEmptySet
	}
	for _, pkg := range s.Packages {
		if err := checkPackage(pkg); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the set names in sorted order
func (s Sets) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named set
func (s Sets) Get(name string) (Set, error) {
	set, ok := s[name]
	if !ok {
		return Set{}, fmt.Errorf("%w: %s", ErrSetNotFound, name)
	}
	return set, nil
}

// InstallSet installs every package of set, keywording them first when asked
func (c *Client) InstallSet(set Set) error {
	if err := set.Validate(); err != nil {
		return err
	}

	if set.AcceptKeywords {
		for _, pkg := range set.Packages {
			if _, err := c.AcceptKeyword(pkg); err != nil {
				return err
			}
		}
	}

	if set.Force {
		return c.InstallForce(set.Packages, set.UpgradeOnly)
	}
	return c.Install(set.Packages)
}
