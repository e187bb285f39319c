// Package types defines the core types and interfaces used throughout
// loadout. This includes the FS and Pather seams that every file-touching
// package is written against, plus small shared value types like Mod.
package types
