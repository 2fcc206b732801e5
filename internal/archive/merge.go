package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/frida-labs/devkit/internal/toolchain"
)

// Strategy merges input archives, in order, into output.
type Strategy interface {
	Name() string
	Merge(ctx context.Context, inputs []string, output string) error
}

// Merge removes any existing output, then merges inputs with s. A failed
// merge never leaves a partial archive behind.
func Merge(ctx context.Context, s Strategy, inputs []string, output string) error {
	if len(inputs) == 0 {
		return errors.New("no archives to merge")
	}

	if err := os.Remove(output); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing existing archive %s: %w", output, err)
	}

	if err := s.Merge(ctx, inputs, output); err != nil {
		os.Remove(output)
		return fmt.Errorf("merging %d archives with %s: %w", len(inputs), s.Name(), err)
	}

	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("%s produced no archive at %s: %w", s.Name(), output, err)
	}
	return nil
}

// mriHelpMarker is how GNU ar advertises MRI script support in --help.
const mriHelpMarker = "-M [<mri-script]"

// SupportsMRI reports whether ar accepts MRI scripts. The help text is read
// regardless of ar's exit status.
func SupportsMRI(ctx context.Context, exec toolchain.Executor, ar string) bool {
	out, err := exec.Run(ctx, toolchain.Command{Path: ar, Args: []string{"--help"}})
	help := string(out)
	var toolErr *toolchain.ToolError
	if errors.As(err, &toolErr) {
		help += toolErr.Output
	}
	return strings.Contains(help, mriHelpMarker)
}

// MRI merges with a GNU ar MRI script in a single invocation.
type MRI struct {
	AR   string
	Exec toolchain.Executor
}

func (m *MRI) Name() string { return "ar -M" }

func (m *MRI) Merge(ctx context.Context, inputs []string, output string) error {
	_, err := m.Exec.Run(ctx, toolchain.Command{
		Path:  m.AR,
		Args:  []string{"-M"},
		Stdin: strings.NewReader(MRIScript(inputs, output)),
	})
	return err
}

// MRIScript returns the script that creates output from inputs.
func MRIScript(inputs []string, output string) string {
	lines := make([]string, 0, len(inputs)+3)
	lines = append(lines, "create "+output)
	for _, input := range inputs {
		lines = append(lines, "addlib "+input)
	}
	lines = append(lines, "save", "end")
	return strings.Join(lines, "\n")
}

// Combine merges with a native static library combiner. Args builds the
// full argument list from the inputs and the output path.
type Combine struct {
	Tool string
	Args func(inputs []string, output string) []string
	// Dir is the working directory the tool runs in.
	Dir  string
	Exec toolchain.Executor
}

func (c *Combine) Name() string { return c.Tool }

func (c *Combine) Merge(ctx context.Context, inputs []string, output string) error {
	_, err := c.Exec.Run(ctx, toolchain.Command{
		Path: c.Tool,
		Args: c.Args(inputs, output),
		Dir:  c.Dir,
	})
	return err
}

// Libtool returns the Apple `xcrun libtool -static` combiner.
func Libtool(exec toolchain.Executor) *Combine {
	return &Combine{
		Tool: "xcrun",
		Args: func(inputs []string, output string) []string {
			return append([]string{"libtool", "-static", "-o", output}, inputs...)
		},
		Exec: exec,
	}
}

// LibExe returns the MSVC `lib.exe /out:` combiner run from dir.
func LibExe(path, dir string, exec toolchain.Executor) *Combine {
	return &Combine{
		Tool: path,
		Args: func(inputs []string, output string) []string {
			return append([]string{"/nologo", "/out:" + output}, inputs...)
		},
		Dir:  dir,
		Exec: exec,
	}
}
