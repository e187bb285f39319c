// Package rules loads the rule document that maps user-facing selections to
// mod sets, plugin placement rules and plugin groups.
//
// The document is JSON with conveniences for hand editing: a UTF-8 BOM,
// full-line // and # comments, and trailing commas are all tolerated.
// Category keys are recognized under several spellings ("main menu",
// "main_menu", "Main Menu"), case-insensitively, and resolve onto canonical
// names. Loading never fails hard: a missing file is seeded with the
// packaged defaults, an unusable one is replaced by them in memory, and a
// malformed category falls back to its default while the rest of the
// document stays live. Documents are cached against the file's modification
// time so repeated loads between edits are free.
package rules
