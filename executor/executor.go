// Package executor runs external programs and captures their output. It
// backs the git command line history source, which reads tags and branches
// the same way a release workflow would from a shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Result holds the output and error from a command execution
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Lines returns the non-empty lines of Stdout with surrounding whitespace removed.
func (r *Result) Lines() []string {
	var lines []string
	for _, line := range strings.Split(r.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Options configures command execution behavior
type Options struct {
	// Working directory
	WorkingDir string

	// Environment variables (appended to current env)
	Env map[string]string

	// Logger receives a debug record per executed command
	Logger *slog.Logger
}

// Option is a function that modifies Options
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Env:    make(map[string]string),
		Logger: slog.Default(),
	}
}

// NewWrappedExecutor creates an executor for a specific program
func NewWrappedExecutor(program string, opts ...Option) *WrappedExecutor {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &WrappedExecutor{
		program: program,
		options: options,
	}
}

// WrappedExecutor provides a clean interface for a specific program
type WrappedExecutor struct {
	program string
	options *Options
}

// Execute runs the wrapped program with args. Options given here apply to
// this call only.
func (w *WrappedExecutor) Execute(
	ctx context.Context,
	args []string,
	opts ...Option,
) (*Result, error) {
	result, err := w.run(ctx, args, w.mergeOptions(opts...))
	if err != nil {
		return result, fmt.Errorf("failed to execute %s with args %v: %w", w.program, args, err)
	}
	return result, nil
}

func (w *WrappedExecutor) run(ctx context.Context, args []string, options *Options) (*Result, error) {
	cmd := exec.CommandContext(ctx, w.program, args...)
	setupCommand(cmd, options)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if options.Logger != nil {
		options.Logger.DebugContext(ctx, "executing command",
			"program", w.program,
			"args", args,
			"dir", options.WorkingDir)
	}

	err := cmd.Run()
	result := newResult(&stdoutBuf, &stderrBuf, err)
	if err != nil {
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			return result, fmt.Errorf("command execution failed: %w: %s", err, stderr)
		}
		return result, fmt.Errorf("command execution failed: %w", err)
	}
	return result, nil
}

// setupCommand configures the exec.Cmd with working directory and environment
func setupCommand(cmd *exec.Cmd, options *Options) {
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}
}

// newResult creates a Result from command execution and error
func newResult(stdoutBuf, stderrBuf *bytes.Buffer, err error) *Result {
	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}

	var exitErr *exec.ExitError
	switch {
	case err != nil && errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err == nil:
		result.ExitCode = 0
	default:
		result.ExitCode = -1
	}

	return result
}

func (w *WrappedExecutor) mergeOptions(opts ...Option) *Options {
	merged := *w.options
	merged.Env = make(map[string]string, len(w.options.Env))
	for k, v := range w.options.Env {
		merged.Env[k] = v
	}

	for _, opt := range opts {
		opt(&merged)
	}

	return &merged
}

// WithWorkingDir sets the working directory
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
