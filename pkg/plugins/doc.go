// Package plugins provides plugin-file discovery and the shared naming
// helpers used across the load-order pipeline.
//
// A "plugin" is a game data file shipped inside a mod directory, recognized
// by its extension (.esm, .esp, .esl). Discovery scans a mod's directory
// tree, collects plugin filenames, and returns them deduplicated and sorted
// case-insensitively. Mods can opt out of discovery, or extend the scanned
// subdirectories, through an optional loadout.toml file in the mod root.
//
// The helpers Normalize and ExtRank define the two equivalences the rest of
// the engine relies on: Normalize collapses cosmetic spelling differences
// (case, spaces, underscores, hyphens) for matching, and ExtRank buckets
// plugins by extension so masters always sort before regular and light
// plugins in a merged load order.
package plugins
