package symbols

import (
	"regexp"
	"strings"
)

// defineNamePattern finds the names of all macro definitions.
var defineNamePattern = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*define[ \t]*([A-Za-z_][A-Za-z0-9_]*)`)

// RewriteMacros redirects public macros to renamed symbols. For each public
// mapping whose original name is itself defined as a macro, whole-word uses
// of the name inside that macro's body (continuation lines included) become
// the renamed form, and the definition is preceded by an #undef so it takes
// over from the mapping block's plain rename.
func RewriteMacros(header string, public []Mapping) string {
	defined := make(map[string]bool)
	for _, m := range defineNamePattern.FindAllStringSubmatch(header, -1) {
		defined[m[1]] = true
	}

	for _, m := range public {
		if !defined[m.Original] {
			continue
		}
		header = rewriteMacro(header, m)
	}
	return header
}

func rewriteMacro(header string, m Mapping) string {
	name := regexp.QuoteMeta(m.Original)
	definition := regexp.MustCompile(`(?m)^([ \t]*#[ \t]*define[ \t]*)` + name + `\b((?:.*\\\n)*.*)$`)
	use := regexp.MustCompile(`\b` + name + `\b`)

	return definition.ReplaceAllStringFunc(header, func(match string) string {
		parts := definition.FindStringSubmatch(match)
		body := use.ReplaceAllLiteralString(parts[2], m.Renamed)
		return "#undef " + m.Original + "\n" + parts[1] + m.Original + body
	})
}

// MappingBlock returns the include-guarded block of #define renames placed
// at the top of the devkit header.
func MappingBlock(guard string, public []Mapping) string {
	var sb strings.Builder
	sb.WriteString("#ifndef " + guard + "\n")
	sb.WriteString("#define " + guard + "\n\n")
	lines := make([]string, 0, len(public))
	for _, m := range public {
		lines = append(lines, "#define "+m.Original+" "+m.Renamed)
	}
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString("#endif\n\n")
	return sb.String()
}
