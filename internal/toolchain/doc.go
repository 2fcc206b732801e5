// Package toolchain describes the native tools a devkit is assembled with
// (archiver, symbol dumper, symbol redefiner, C compiler, pkg-config, MSVC
// lib.exe/cl.exe) and runs them.
//
// A Toolchain is resolved once per invocation and passed by value to every
// step. Unix toolchains come from a build environment script that is sourced
// in-process with mvdan.cc/sh; Windows toolchains come from the installed
// MSVC tools and Windows SDK, preferring the highest installed versions.
//
// Every tool runs through an Executor so tests can substitute a fake. A
// non-zero exit is reported as *ToolError carrying the tool's diagnostics.
package toolchain
