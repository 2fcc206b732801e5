// Package cli defines the Cobra command tree for the devkit CLI. Each file
// in this package registers one top-level command with the root command.
// Commands only parse flags and render results; generation itself lives in
// internal/devkit.
package cli
