// Package archive merges several static archives into one.
//
// Three interchangeable strategies produce the same result, a single
// archive holding every input's object code:
//
//   - MRI drives `ar -M` with a script that adds each input archive whole.
//   - Combine invokes a platform's static library combiner (Apple's libtool,
//     MSVC's lib.exe).
//   - Repack extracts every input into a scratch directory, renames objects
//     whose names collide by prepending "_", and packs them with `ar rcs`.
package archive
