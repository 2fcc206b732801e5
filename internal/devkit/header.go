package devkit

import (
	"strings"

	"github.com/frida-labs/devkit/internal/symbols"
)

// HeaderParts is everything prepended to or rewritten in the flattened
// header.
type HeaderParts struct {
	StaticDefines []string
	LinkPragmas   string
	// Renamed reports whether the library's symbols were isolated at all.
	Renamed bool
	Public  []symbols.Mapping
	Guard   string
}

// ComposeHeader builds the devkit header from the flattened body: the
// static build defines, any link pragmas and the guarded rename block come
// first, and public macros are pointed at renamed symbols. Line endings
// are normalized to LF.
func ComposeHeader(body string, parts HeaderParts) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var config strings.Builder
	for _, define := range parts.StaticDefines {
		config.WriteString("#ifndef " + define + "\n")
		config.WriteString("# define " + define + "\n")
		config.WriteString("#endif\n\n")
	}
	config.WriteString(parts.LinkPragmas)

	if parts.Renamed {
		body = symbols.RewriteMacros(body, parts.Public)
		config.WriteString(symbols.MappingBlock(parts.Guard, parts.Public))
	}

	return config.String() + body
}
