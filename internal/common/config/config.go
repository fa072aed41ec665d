package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigDirNotSet = errors.New("portage config directory is not configured")
	ErrRepoNotSet      = errors.New("portage repository name is not configured")
	ErrConfigDirNotDir = errors.New("portage config path is not a directory")
)

// Defaults
const (
	DefaultConfigDir = "/etc/portage"
	DefaultRepo      = "gentoo"
	DefaultTmpDir    = "/var/tmp/portage"
	DefaultFileName  = "portagetool"
	DefaultSudo      = "sudo"
	DefaultGlob      = "/etc/init.d/postgresql-*"
)

// DefaultExtraCategories are appended to the repository's category list
var DefaultExtraCategories = []string{"dev-zig"}

// Config represents the application configuration
type Config struct {
	Portage    PortageConfig    `yaml:"portage"`
	Categories CategoriesConfig `yaml:"categories"`
	Exec       ExecConfig       `yaml:"exec"`
	Latest     LatestConfig     `yaml:"latest"`
	Sets       SetsConfig       `yaml:"sets"`
}

// PortageConfig holds paths of the portage installation
type PortageConfig struct {
	ConfigDir string `yaml:"config_dir"` // usually /etc/portage
	Repo      string `yaml:"repo"`       // repository queried for categories
	TmpDir    string `yaml:"tmpdir"`     // PORTAGE_TMPDIR/portage
	FileName  string `yaml:"file_name"`  // file written inside package.* directories
}

// CategoriesConfig holds category list settings
type CategoriesConfig struct {
	Extra []string `yaml:"extra"`
}

// ExecConfig holds settings for running privileged commands
type ExecConfig struct {
	Sudo string `yaml:"sudo"` // privilege wrapper; empty runs commands directly
}

// LatestConfig holds settings for latest-version lookups
type LatestConfig struct {
	Glob string `yaml:"glob"`
}

// SetsConfig locates the package sets file
type SetsConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Default returns a config populated with default values
func Default() *Config {
	return &Config{
		Portage: PortageConfig{
			ConfigDir: DefaultConfigDir,
			Repo:      DefaultRepo,
			TmpDir:    DefaultTmpDir,
			FileName:  DefaultFileName,
		},
		Categories: CategoriesConfig{
			Extra: append([]string(nil), DefaultExtraCategories...),
		},
		Exec: ExecConfig{
			Sudo: DefaultSudo,
		},
		Latest: LatestConfig{
			Glob: DefaultGlob,
		},
	}
}

// configHome returns $XDG_CONFIG_HOME or ~/.config
func configHome() (string, error) {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/portagetool/config.yaml (XDG standard - priority)
// 2. ~/.portagetool/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	xdgConfig, err := configHome()
	if err != nil {
		return nil, err
	}

	return []string{
		filepath.Join(xdgConfig, "portagetool", "config.yaml"),
		filepath.Join(home, ".portagetool", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// DefaultSetsPath returns the default package sets file path
func DefaultSetsPath() (string, error) {
	xdgConfig, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgConfig, "portagetool", "sets.toml"), nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is created with defaults; missing keys fall back to defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that required settings are present
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Portage.ConfigDir) == "" {
		return ErrConfigDirNotSet
	}
	if strings.TrimSpace(c.Portage.Repo) == "" {
		return ErrRepoNotSet
	}
	return nil
}

// PortagePath returns a path inside the portage config directory, e.g. package.mask
func (c *Config) PortagePath(name string) (string, error) {
	dir, err := c.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GetConfigDir returns the expanded portage config directory.
// The directory may not exist yet; an existing non-directory is an error.
func (c *Config) GetConfigDir() (string, error) {
	if c.Portage.ConfigDir == "" {
		return "", ErrConfigDirNotSet
	}

	path, err := expandHome(c.Portage.ConfigDir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrConfigDirNotDir, path)
	}

	return path, nil
}

// GetSetsPath returns the package sets file path, defaulting to the XDG location
func (c *Config) GetSetsPath() (string, error) {
	if c.Sets.Path == "" {
		return DefaultSetsPath()
	}
	return expandHome(c.Sets.Path)
}

// SudoArgs returns the privilege wrapper split into command and leading args
func (c *Config) SudoArgs() []string {
	return strings.Fields(c.Exec.Sudo)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
