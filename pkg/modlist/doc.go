// Package modlist mutates a profile's modlist.txt.
//
// Every line is preserved verbatim unless it names a targeted mod: a mod
// line is a sign character followed by the mod name, compared
// case-sensitively after trimming. Comments and blank lines are never
// rewritten. When a mod appears several times only the last occurrence
// survives an update, at its original position; unknown mods are appended
// at the end. Apply is idempotent and only writes when the file actually
// changed.
package modlist
