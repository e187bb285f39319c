// Package activation maintains a profile's plugins.txt activation file.
//
// Each data line names one plugin; a leading asterisk marks it active.
// Updates are conservative: matching is case-insensitive on the exact
// filename, the last occurrence of a plugin wins, comment lines are never
// touched, and files are only written when an entry actually changed. A
// missing file starts from a small comment header rather than from nothing.
package activation
