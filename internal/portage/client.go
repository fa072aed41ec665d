// Package portage wraps the Gentoo package manager tools (emerge, equery,
// qlist, portageq, ebuild) behind typed operations. Operations build a
// command line, run it through a runner.Executor and parse the text output.
package portage

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/obentoo/portagetool/internal/common/config"
	"github.com/obentoo/portagetool/internal/common/ebuild"
	"github.com/obentoo/portagetool/internal/common/linefile"
	"github.com/obentoo/portagetool/internal/common/logger"
	"github.com/obentoo/portagetool/internal/common/runner"
)

var (
	ErrNotInstalled   = errors.New("no installed package matches")
	ErrRepoNotFound   = errors.New("repository path not found")
	ErrNoMatches      = errors.New("no files match pattern")
	ErrNoLocation     = errors.New("package location not found in equery meta output")
	ErrUnknownUseFlag = errors.New("USE flag is not valid for package")
	ErrNoPackages     = errors.New("no packages given")
)

// Tool names
const (
	Emerge    = "emerge"
	Equery    = "equery"
	Qlist     = "qlist"
	Portageq  = "portageq"
	EbuildCmd = "ebuild"
	Chmod     = "chmod"
)

// Portage config files written by this package
const (
	AcceptKeywordsFile = "package.accept_keywords"
	MaskFile           = "package.mask"
	UseFile            = "package.use"
)

// Client runs portage operations
type Client struct {
	exec   runner.Executor
	cfg    *config.Config
	lines  *linefile.Writer
	log    *logger.Logger
	dryRun io.Writer
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithDryRun reports config file writes to w instead of performing them
func WithDryRun(w io.Writer) Option {
	return func(c *Client) {
		c.dryRun = w
	}
}

// NewClient creates a Client using exec for all external commands
func NewClient(cfg *config.Config, exec runner.Executor, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		exec:  exec,
		cfg:   cfg,
		lines: linefile.New(cfg.Portage.FileName),
		log:   logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// checkPackage validates a package argument
func checkPackage(pkg string) error {
	if err := ebuild.ValidatePackageArg(pkg); err != nil {
		return fmt.Errorf("%q: %w", pkg, err)
	}
	return nil
}

// privileged wraps a command with the configured sudo wrapper
func (c *Client) privileged(cmd runner.Command) runner.Command {
	sudo := c.cfg.SudoArgs()
	if len(sudo) == 0 {
		return cmd
	}
	args := append([]string{}, sudo[1:]...)
	args = append(args, cmd.Name)
	args = append(args, cmd.Args...)
	cmd.Name = sudo[0]
	cmd.Args = args
	return cmd
}

// WriteResult describes the outcome of a config file line write
type WriteResult struct {
	Path    string
	Line    string
	Written bool
	DryRun  bool
}

// writeConfigLine writes line into the named portage config file
func (c *Client) writeConfigLine(name, line string) (*WriteResult, error) {
	path, err := c.cfg.PortagePath(name)
	if err != nil {
		return nil, err
	}

	if c.dryRun != nil {
		present, err := c.lines.Contains(path, line)
		if err != nil {
			return nil, err
		}
		target, err := c.lines.Target(path)
		if err != nil {
			return nil, err
		}
		if present {
			fmt.Fprintf(c.dryRun, "present %q already in %s\n", line, target)
		} else {
			fmt.Fprintf(c.dryRun, "append %q to %s\n", line, target)
		}
		return &WriteResult{Path: target, Line: line, DryRun: true}, nil
	}

	target, written, err := c.lines.WriteLine(path, line)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", filepath.Base(path), err)
	}
	if written {
		c.log.Debug("added %q to %s", line, target)
	} else {
		c.log.Debug("%q already present in %s", line, target)
	}
	return &WriteResult{Path: target, Line: line, Written: written}, nil
}
