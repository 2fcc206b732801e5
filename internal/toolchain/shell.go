package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// EnvScript is a POSIX shell script that exports a build environment
// (CC, CFLAGS, AR, PKG_CONFIG, ...). It is sourced with an in-process
// interpreter; commands it invokes still run as child processes.
type EnvScript struct {
	Path string
	// Environ is the environment the script starts from; nil means os.Environ().
	Environ []string
}

// Probe sources the script and returns the values of the named variables.
// Unset variables map to the empty string.
func (e EnvScript) Probe(ctx context.Context, names ...string) (map[string]string, error) {
	runner, _, stderr, err := e.run(ctx, "true")
	if err != nil {
		return nil, e.shellError("true", stderr, err)
	}

	values := make(map[string]string, len(names))
	for _, name := range names {
		values[name] = runner.Vars[name].String()
	}
	return values, nil
}

// Capture sources the script and then runs command in the resulting
// environment, returning its standard output.
func (e EnvScript) Capture(ctx context.Context, command string) (string, error) {
	_, stdout, stderr, err := e.run(ctx, command)
	if err != nil {
		return "", e.shellError(command, stderr, err)
	}
	return stdout, nil
}

func (e EnvScript) run(ctx context.Context, command string) (*interp.Runner, string, string, error) {
	quoted, err := Quote(e.Path)
	if err != nil {
		return nil, "", "", fmt.Errorf("quoting %s: %w", e.Path, err)
	}

	src := ". " + quoted + " && " + command
	prog, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(src), e.Path)
	if err != nil {
		return nil, "", "", fmt.Errorf("parsing shell command: %w", err)
	}

	environ := e.Environ
	if environ == nil {
		environ = os.Environ()
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return nil, "", "", fmt.Errorf("creating interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		return runner, stdout.String(), stderr.String(), err
	}
	return runner, stdout.String(), stderr.String(), nil
}

func (e EnvScript) shellError(command, stderr string, err error) error {
	toolErr := &ToolError{
		Tool:   "sh",
		Args:   []string{"-c", ". " + e.Path + " && " + command},
		Output: stderr,
		Err:    err,
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		toolErr.ExitCode = int(status)
	}
	return toolErr
}

// Quote returns s quoted for use as one word in a POSIX shell command.
func Quote(s string) (string, error) {
	return syntax.Quote(s, syntax.LangPOSIX)
}
