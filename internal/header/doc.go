// Package header flattens a product's umbrella header into one
// self-contained header.
//
// Includes that resolve to a header in the product's dependency universe are
// replaced by that header's content, depth-first, each header at most once.
// Includes that do not resolve (system and third-party headers) are kept as
// written. The package also parses the two compiler outputs the universe is
// derived from: make-style dependency rules and #line markers.
package header
