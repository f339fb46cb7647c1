// Package command builds and runs the external programs the scaffolder
// launches: folder pickers, browsers and editors.
package command

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default command execution timeout
	DefaultTimeout = 2 * time.Minute

	// MaxTimeout is the maximum allowed timeout
	MaxTimeout = 10 * time.Minute
)

var validProgram = regexp.MustCompile(`^[a-zA-Z0-9/._+-]+$`)

// SafeBuilder provides secure command execution with validation
type SafeBuilder struct {
	defaultTimeout time.Duration
	validators     map[string]func(string) error
	executor       Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		defaultTimeout: DefaultTimeout,
		validators:     makeDefaultValidators(),
		executor:       exec,
	}
}

func makeDefaultValidators() map[string]func(string) error {
	return map[string]func(string) error{
		"program":  validateProgram,
		"fileName": validateFileName,
		"url":      validateURL,
	}
}

// validateProgram accepts a bare executable name or a path to one.
func validateProgram(name string) error {
	if name == "" {
		return fmt.Errorf("program cannot be empty")
	}
	if !validProgram.MatchString(name) {
		return fmt.Errorf("invalid program: %s", name)
	}
	return nil
}

// validateFileName ensures file paths are safe
func validateFileName(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("file path cannot contain '..'")
		}
	}

	if strings.ContainsAny(path, ";|&$`\n") {
		return fmt.Errorf("file path contains invalid characters")
	}

	return nil
}

// validateURL accepts absolute http and https URLs.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host: %s", raw)
	}
	return nil
}

// Command represents a safe command configuration
type Command struct {
	parent   context.Context
	name     string
	args     []string
	timeout  time.Duration
	executor Executor
}

// Build creates a new command with validation. The timeout starts when the
// command runs.
func (sb *SafeBuilder) Build(ctx context.Context, name string, args ...string) (*Command, error) {
	if err := validateProgram(name); err != nil {
		return nil, err
	}

	return &Command{
		parent:   ctx,
		name:     name,
		args:     args,
		timeout:  sb.defaultTimeout,
		executor: sb.executor,
	}, nil
}

// WithTimeout sets a custom timeout for the command
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	c.timeout = timeout
	return c
}

// Validate validates specific arguments
func (sb *SafeBuilder) Validate(argType string, value string) error {
	validator, exists := sb.validators[argType]
	if !exists {
		return fmt.Errorf("no validator for argument type: %s", argType)
	}

	return validator(value)
}

// String renders the command line for logging.
func (c *Command) String() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// Exec creates the exec.Cmd. The returned cancel releases the timeout and
// must be called once the command has finished.
func (c *Command) Exec() (*exec.Cmd, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.parent, c.timeout)
	return c.executor.CommandContext(ctx, c.name, c.args...), cancel //nolint:gosec // SafeBuilder provides validation
}

// Output runs the command and returns its standard output.
func (c *Command) Output() ([]byte, error) {
	cmd, cancel := c.Exec()
	defer cancel()
	return cmd.Output()
}

// Interactive creates an exec.Cmd with no timeout, for programs driven by
// the user.
func (c *Command) Interactive() *exec.Cmd {
	return c.executor.Command(c.name, c.args...) //nolint:gosec // SafeBuilder provides validation
}

// Start launches the command without waiting for it. The process is reaped
// in the background.
func (c *Command) Start() error {
	cmd := c.Interactive()
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (sb *SafeBuilder) withTimeout(timeout time.Duration) *SafeBuilder {
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	sb.defaultTimeout = timeout
	return sb
}
