package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CommandError describes a failed external tool invocation.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Kind     error // domain sentinel
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s", e.Kind, e.Command)
	if e.ExitCode > 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\n%s", s)
	}
	return b.String()
}

func (e *CommandError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Runner executes external tools.
type Runner struct {
	logger  *slog.Logger
	baseDir string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for command traces.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether the command can be found on PATH.
func Available(cfg CommandConfig) error {
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return fmt.Errorf("%s not found on PATH (install it or configure another command): %w", cfg.Command, err)
	}
	return nil
}

// Run executes cfg with expanded args, classifying failures under kind.
// The output file must exist and be non-empty afterwards.
func (r *Runner) Run(ctx context.Context, cfg CommandConfig, args []string, output string, kind error) error {
	cmd := exec.CommandContext(ctx, cfg.Command, args...)
	cmd.Dir = r.baseDir
	if len(cfg.Environment) > 0 {
		env := cmd.Environ()
		for k, v := range cfg.Environment {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.logger.Debug("external command finished",
		"command", cfg.Command, "args", args, "duration", time.Since(start), "err", err)

	if err != nil {
		ce := &CommandError{Command: cfg.Command, Args: args, Stderr: stderr.String(), Kind: kind, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ce.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			ce.Err = ctxErr
		}
		return ce
	}

	info, statErr := os.Stat(output)
	if statErr != nil || info.Size() == 0 {
		return &CommandError{
			Command: cfg.Command,
			Args:    args,
			Stderr:  stderr.String(),
			Kind:    kind,
			Err:     fmt.Errorf("output %s is missing or empty", output),
		}
	}
	return nil
}
