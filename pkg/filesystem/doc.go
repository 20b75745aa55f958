// Package filesystem provides filesystem implementations for cpgen.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem used at runtime and afero-backed
// filesystems used by tests.
package filesystem
