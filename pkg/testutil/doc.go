// Package testutil provides shared helpers for loadout's test suites.
//
// The central type is TestEnvironment, which stands up a complete managed
// instance (mods/, profiles/, rule document) on either a pure in-memory
// filesystem (EnvMemoryOnly) or a real temp directory (EnvIsolated), with
// a matching paths.Paths and the relevant environment variables pointed at
// the instance. Fixture helpers (SetupMod, SetupProfile, WriteRules) keep
// individual tests focused on behavior instead of setup plumbing.
package testutil
