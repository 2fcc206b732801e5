package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Command is one external tool invocation.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env replaces the process environment when non-nil.
	Env   []string
	Stdin io.Reader
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Executor runs external tools. Run returns the tool's standard output.
type Executor interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ToolError is returned when a tool cannot be started or exits non-zero.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	// Output holds the tool's diagnostic output.
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Tool)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// SystemExecutor runs tools as child processes.
type SystemExecutor struct {
	Logger *log.Logger
}

// Run starts cmd, waits for it and returns its standard output. Standard
// error is captured for the ToolError on failure.
func (s *SystemExecutor) Run(ctx context.Context, cmd Command) ([]byte, error) {
	if s.Logger != nil {
		s.Logger.Debug("running tool", "cmd", cmd.String(), "dir", cmd.Dir)
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = cmd.Stdin

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		toolErr := &ToolError{
			Tool:   cmd.Path,
			Args:   cmd.Args,
			Output: stderr.String() + stdout.String(),
			Err:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), toolErr
	}

	return stdout.Bytes(), nil
}
