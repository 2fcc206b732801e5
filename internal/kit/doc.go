// Package kit holds the catalog of bundleable kits: which pkg-config package
// each kit is built from, where its umbrella header lives, which extension
// headers are folded into it, how its Windows archives are assembled from
// SDK library groups, and the symbol isolation policy shared by all kits.
//
// The catalog ships embedded (kits.yaml) and is validated against an embedded
// JSON schema; a replacement catalog can be loaded from disk.
package kit
