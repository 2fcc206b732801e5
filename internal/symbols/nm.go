package symbols

import (
	"context"
	"strings"

	"github.com/frida-labs/devkit/internal/toolchain"
)

// Record is one line of nm output.
type Record struct {
	Kind string
	Name string
}

// definedKinds are the nm symbol types that define something a consumer
// could collide with: code, initialized data, BSS, read-only data and
// common symbols.
var definedKinds = map[string]bool{
	"T": true,
	"D": true,
	"B": true,
	"R": true,
	"C": true,
}

// IsDefined reports whether the record defines a global symbol.
func (r Record) IsDefined() bool {
	return definedKinds[r.Kind]
}

// ParseNM parses nm's default (BSD) output format. Member headers, blank
// lines and anything with fewer than three space-separated fields are
// skipped; undefined symbols keep their kind so callers can filter them.
func ParseNM(out string) []Record {
	var records []Record
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		tokens := strings.Split(line, " ")
		if len(tokens) < 3 {
			continue
		}
		records = append(records, Record{
			Kind: tokens[len(tokens)-2],
			Name: tokens[len(tokens)-1],
		})
	}
	return records
}

// List runs nm over archive and returns its symbol records.
func List(ctx context.Context, exec toolchain.Executor, nm, archive string) ([]Record, error) {
	out, err := exec.Run(ctx, toolchain.Command{Path: nm, Args: []string{archive}})
	if err != nil {
		return nil, err
	}
	return ParseNM(string(out)), nil
}
