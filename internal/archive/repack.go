package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frida-labs/devkit/internal/toolchain"
)

// Repack merges by extracting every input's objects and packing them again.
// Object names that collide with an earlier one get "_" prepended until
// unique, so no member is dropped.
type Repack struct {
	AR   string
	Exec toolchain.Executor
	// TempDir is where scratch directories are created; empty means os.TempDir().
	TempDir string
}

func (r *Repack) Name() string { return "ar x/rcs" }

func (r *Repack) Merge(ctx context.Context, inputs []string, output string) error {
	output, err := filepath.Abs(output)
	if err != nil {
		return err
	}

	combined, err := os.MkdirTemp(r.TempDir, "devkit")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(combined)

	taken := make(map[string]bool)
	var objects []string
	for _, input := range inputs {
		moved, err := r.extract(ctx, input, combined, taken)
		if err != nil {
			return err
		}
		objects = append(objects, moved...)
	}

	_, err = r.Exec.Run(ctx, toolchain.Command{
		Path: r.AR,
		Args: append([]string{"rcs", output}, objects...),
		Dir:  combined,
	})
	return err
}

// extract unpacks input into its own scratch directory and moves its
// objects into combined under unique names, returning them in name order.
func (r *Repack) extract(ctx context.Context, input, combined string, taken map[string]bool) ([]string, error) {
	input, err := filepath.Abs(input)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(r.TempDir, "devkit")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	if _, err := r.Exec.Run(ctx, toolchain.Command{Path: r.AR, Args: []string{"x", input}, Dir: scratch}); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(scratch)
	if err != nil {
		return nil, fmt.Errorf("reading extracted objects of %s: %w", input, err)
	}

	var moved []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".o") {
			continue
		}

		unique := UniqueName(name, taken)
		taken[unique] = true
		if err := os.Rename(filepath.Join(scratch, name), filepath.Join(combined, unique)); err != nil {
			return nil, fmt.Errorf("moving object %s: %w", name, err)
		}
		moved = append(moved, unique)
	}

	return moved, nil
}

// UniqueName prepends "_" to name until it is not in taken.
func UniqueName(name string, taken map[string]bool) string {
	for taken[name] {
		name = "_" + name
	}
	return name
}
