package symbols

import (
	"sort"
	"strings"
)

// Policy decides which symbols are renamed and which renames are public.
type Policy struct {
	// RenamePrefix is prepended to every third-party symbol.
	RenamePrefix string
	// OwnPrefixes mark the product's own symbols, which are never renamed.
	OwnPrefixes []string
	// PublicPrefixes mark third-party symbols reachable from public macros.
	PublicPrefixes []string
}

// Mapping renames Original to Renamed.
type Mapping struct {
	Original string
	Renamed  string
}

// Plan returns the rename mapping for records: every distinct defined
// symbol that is neither the product's own nor already renamed, sorted by
// name.
func (p Policy) Plan(records []Record) []Mapping {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if !r.IsDefined() || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		names = append(names, r.Name)
	}
	sort.Strings(names)

	var mappings []Mapping
	for _, name := range names {
		if p.IsOwn(name) || strings.HasPrefix(name, p.RenamePrefix) {
			continue
		}
		mappings = append(mappings, Mapping{Original: name, Renamed: p.RenamePrefix + name})
	}
	return mappings
}

// Public returns the mappings whose original name has a public prefix.
func (p Policy) Public(mappings []Mapping) []Mapping {
	var public []Mapping
	for _, m := range mappings {
		if hasAnyPrefix(m.Original, p.PublicPrefixes) {
			public = append(public, m)
		}
	}
	return public
}

// IsOwn reports whether name belongs to the product.
func (p Policy) IsOwn(name string) bool {
	return hasAnyPrefix(name, p.OwnPrefixes)
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
