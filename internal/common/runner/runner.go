package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/obentoo/portagetool/internal/common/logger"
	"mvdan.cc/sh/v3/syntax"
)

var (
	ErrCommand  = errors.New("command failed")
	ErrNotFound = errors.New("executable not found")
)

// Command describes a single external program invocation
type Command struct {
	Name    string
	Args    []string
	Env     []string // KEY=value entries appended to the current environment
	OkCodes []int    // exit codes accepted in addition to 0
	Dir     string
}

// Executor defines the interface for running external commands.
// This interface allows for mocking portage tools in tests.
type Executor interface {
	// Output runs the command and returns its stdout
	Output(cmd Command) (string, error)

	// Run runs the command attached to the terminal
	Run(cmd Command) error
}

// Runner executes commands on the host
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	dryRun    bool
	dryRunOut io.Writer
	log       *logger.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithDryRun makes Run print commands to w instead of executing them.
// Output still executes; it is only used for read-only queries.
func WithDryRun(w io.Writer) Option {
	return func(r *Runner) {
		r.dryRun = true
		r.dryRunOut = w
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// NewRunner creates a Runner attached to the process stdio
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		log:    logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) build(c Command) *exec.Cmd {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

// Output runs the command and returns its stdout
func (r *Runner) Output(c Command) (string, error) {
	r.log.Debug("exec: %s", String(c))

	cmd := r.build(c)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := checkExit(c, cmd.Run(), stderrBuf.String())
	return stdoutBuf.String(), err
}

// Run runs the command with stdout and stderr streamed to the terminal
func (r *Runner) Run(c Command) error {
	r.log.Debug("exec: %s", String(c))
	if r.dryRun {
		fmt.Fprintln(r.dryRunOut, String(c))
		return nil
	}

	cmd := r.build(c)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Stdin = r.Stdin

	return checkExit(c, cmd.Run(), "")
}

// checkExit maps a process error onto our error values, honouring OkCodes
func checkExit(c Command, err error, stderr string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, c.Name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		for _, ok := range c.OkCodes {
			if code == ok {
				return nil
			}
		}
	}

	// Wrap the error with stderr for context
	if msg := strings.TrimSpace(stderr); msg != "" {
		return errors.Join(fmt.Errorf("%w: %s", ErrCommand, c.Name), errors.New(msg))
	}
	return errors.Join(fmt.Errorf("%w: %s", ErrCommand, c.Name), err)
}

// String renders a command as a POSIX shell command line
func String(c Command) string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	for _, kv := range c.Env {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			parts = append(parts, quote(kv))
			continue
		}
		parts = append(parts, key+"="+quote(value))
	}
	parts = append(parts, quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		// Only strings that cannot be represented in POSIX sh end up here
		return fmt.Sprintf("%q", s)
	}
	return q
}

// quoteArg leaves "=" alone: after the command name it cannot start an assignment
func quoteArg(s string) string {
	if stripped := strings.ReplaceAll(s, "=", ""); stripped != "" && quote(stripped) == stripped {
		return s
	}
	return quote(s)
}

// Ensure Runner implements Executor interface
var _ Executor = (*Runner)(nil)
