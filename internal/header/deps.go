package header

import "strings"

// ParseMakeRule returns the prerequisites of the first rule in make-style
// dependency output (as printed by `cc -M`), in order. Line continuations
// and escaped spaces are honored.
func ParseMakeRule(out string) []string {
	joined := strings.ReplaceAll(out, "\\\r\n", " ")
	joined = strings.ReplaceAll(joined, "\\\n", " ")

	rule, _, _ := strings.Cut(joined, "\n")
	_, prereqs, found := cutTarget(rule)
	if !found {
		return nil
	}

	var deps []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			deps = append(deps, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(prereqs); i++ {
		c := prereqs[i]
		switch {
		case c == '\\' && i+1 < len(prereqs) && prereqs[i+1] == ' ':
			cur.WriteByte(' ')
			i++
		case c == ' ' || c == '\t' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return deps
}

// targetSuffixes are the extensions of the targets `cc -M` names.
var targetSuffixes = []string{".o", ".obj", ".d"}

// cutTarget splits a rule at the colon that ends its target list. The last
// target must be an object or dependency file, so diagnostics such as
// "warning: ..." are not mistaken for rules.
func cutTarget(rule string) (string, string, bool) {
	for i := 0; i < len(rule); i++ {
		if rule[i] != ':' {
			continue
		}
		if i+1 < len(rule) && rule[i+1] != ' ' && rule[i+1] != '\t' {
			continue
		}
		targets := strings.Fields(rule[:i])
		if len(targets) == 0 || !hasAnySuffix(targets[len(targets)-1], targetSuffixes) {
			return "", "", false
		}
		return rule[:i], rule[i+1:], true
	}
	return "", "", false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// UnderRoot keeps the paths inside root, dropping anything from an Android
// NDK tree that happens to live there.
func UnderRoot(paths []string, root string) []string {
	var kept []string
	for _, p := range paths {
		if !strings.HasPrefix(p, root) {
			continue
		}
		if strings.Contains(p[len(root):], "/ndk-") {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// ParseLineMarkers returns the files named by `#line N "file"` markers in
// MSVC preprocessor output, slash-separated, deduplicated and limited to
// those under root (compared case-insensitively).
func ParseLineMarkers(out, root string) []string {
	prefix := strings.ToLower(strings.ReplaceAll(root, `\`, "/"))

	var refs []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "#line ") {
			continue
		}
		first := strings.Index(line, `"`)
		last := strings.LastIndex(line, `"`)
		if first < 0 || last <= first {
			continue
		}
		ref := strings.ReplaceAll(line[first+1:last], `\\`, "/")
		if !strings.HasPrefix(strings.ToLower(ref), prefix) {
			continue
		}
		refs = append(refs, ref)
	}

	return Deduplicate(refs)
}

// Deduplicate removes repeated items, keeping first occurrences in order.
func Deduplicate(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
