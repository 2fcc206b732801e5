package cli

import (
	"errors"
	"fmt"

	"github.com/frida-labs/devkit/internal/devkit"
	"github.com/frida-labs/devkit/internal/kit"
	"github.com/frida-labs/devkit/internal/platform"
	"github.com/frida-labs/devkit/internal/toolchain"
)

// Process exit codes.
const (
	ExitFailure     = 1
	ExitUnsupported = 2
	ExitMissing     = 3
	ExitToolchain   = 4
)

// ExitError carries the exit code a failed command should end the process with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code; nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var toolErr *toolchain.ToolError
	switch {
	case errors.Is(err, kit.ErrUnsupportedKit), errors.Is(err, platform.ErrUnsupportedHost):
		return ExitUnsupported
	case devkit.IsMissingArtifact(err):
		return ExitMissing
	case errors.As(err, &toolErr):
		return ExitToolchain
	}
	return ExitFailure
}
