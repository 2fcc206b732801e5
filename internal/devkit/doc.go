// Package devkit assembles a self-contained SDK bundle for one kit and one
// host: a merged static library with third-party symbols isolated, a single
// flattened header and an example program showing how to build against
// them.
//
// Generation is a single synchronous pipeline. Every output is written to a
// staging directory inside the output directory and only moved into place
// once all steps have succeeded.
package devkit
