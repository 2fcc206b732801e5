// Package symbols isolates third-party code baked into a merged archive.
//
// Defined global symbols are listed with nm, every one that does not belong
// to the product is renamed with a fixed prefix (objcopy --redefine-syms),
// and the renames consumers can reach through public macros are mirrored
// into the flattened header. The rename is a pure function of the original
// name, so re-running it over an isolated archive changes nothing.
package symbols
