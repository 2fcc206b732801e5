package symbols

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/frida-labs/devkit/internal/toolchain"
)

// RenamesFile returns the objcopy --redefine-syms file content for mappings.
func RenamesFile(mappings []Mapping) string {
	var sb strings.Builder
	for _, m := range mappings {
		sb.WriteString(m.Original)
		sb.WriteByte(' ')
		sb.WriteString(m.Renamed)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Redefine renames symbols in archive in place. An empty mapping is a no-op.
func Redefine(ctx context.Context, exec toolchain.Executor, objcopy, archive string, mappings []Mapping) error {
	if len(mappings) == 0 {
		return nil
	}

	f, err := os.CreateTemp("", "devkit-renames-*.txt")
	if err != nil {
		return fmt.Errorf("creating renames file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(RenamesFile(mappings)); err != nil {
		f.Close()
		return fmt.Errorf("writing renames file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing renames file: %w", err)
	}

	_, err = exec.Run(ctx, toolchain.Command{
		Path: objcopy,
		Args: []string{"--redefine-syms=" + f.Name(), archive},
	})
	return err
}

// Isolate lists archive's symbols, plans the renames and applies them. It
// returns the full mapping.
func Isolate(ctx context.Context, exec toolchain.Executor, nm, objcopy, archive string, policy Policy) ([]Mapping, error) {
	records, err := List(ctx, exec, nm, archive)
	if err != nil {
		return nil, fmt.Errorf("listing symbols of %s: %w", archive, err)
	}

	mappings := policy.Plan(records)
	if err := Redefine(ctx, exec, objcopy, archive, mappings); err != nil {
		return nil, fmt.Errorf("renaming %d symbols in %s: %w", len(mappings), archive, err)
	}
	return mappings, nil
}
