package header

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var includePattern = regexp.MustCompile(`^#include\s+[<"](.*?)[>"]`)

// Visited is the set of header paths already inlined. Paths are compared
// the way Resolve matches them, ignoring case and separator style.
type Visited map[string]bool

// Mark records path as inlined and reports whether it was new.
func (v Visited) Mark(path string) bool {
	key := strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
	if v[key] {
		return false
	}
	v[key] = true
	return true
}

// Flattener inlines includes that resolve inside Universe.
type Flattener struct {
	// Universe lists the product's headers. When two entries share a base
	// name the first one wins.
	Universe []string
	// ReadFile defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Flatten inlines umbrella, then each extra root not already inlined, with
// one shared Visited set. The first universe entry is the umbrella as the
// dependency tool spelled it and counts as visited too.
func (f *Flattener) Flatten(umbrella string, extraRoots ...string) (string, error) {
	var sb strings.Builder
	visited := Visited{}
	visited.Mark(umbrella)
	if len(f.Universe) > 0 {
		visited.Mark(f.Universe[0])
	}

	if err := f.Ingest(umbrella, visited, &sb); err != nil {
		return "", err
	}

	for _, root := range extraRoots {
		if !visited.Mark(root) {
			continue
		}
		if err := f.Ingest(root, visited, &sb); err != nil {
			return "", err
		}
	}

	return sb.String(), nil
}

// Ingest copies path's lines into sb, recursively replacing includes that
// resolve in the universe. The caller marks path itself as visited.
func (f *Flattener) Ingest(path string, visited Visited, sb *strings.Builder) error {
	data, err := f.read(path)
	if err != nil {
		return fmt.Errorf("reading header %s: %w", path, err)
	}

	for _, line := range splitLines(string(data)) {
		m := includePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			sb.WriteString(line)
			continue
		}

		resolved, ok := f.Resolve(m[1])
		if !ok {
			sb.WriteString(line)
			continue
		}

		if !visited.Mark(resolved) {
			continue
		}
		if err := f.Ingest(resolved, visited, sb); err != nil {
			return err
		}
	}

	return nil
}

// Resolve returns the first universe entry whose path ends with "/"+name,
// compared case-insensitively.
func (f *Flattener) Resolve(name string) (string, bool) {
	suffix := "/" + strings.ToLower(filepath.ToSlash(name))
	for _, candidate := range f.Universe {
		if strings.HasSuffix(strings.ToLower(filepath.ToSlash(candidate)), suffix) {
			return candidate, true
		}
	}
	return "", false
}

func (f *Flattener) read(path string) ([]byte, error) {
	if f.ReadFile != nil {
		return f.ReadFile(path)
	}
	return os.ReadFile(path)
}

// splitLines splits s after each newline, keeping the terminators.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
