// Package filesystem provides filesystem implementations for loadout.
//
// This package contains implementations of the types.FS interface (the
// standard OS filesystem and an afero-backed one for tests) plus the
// atomic write helper every managed-file writer goes through.
package filesystem
