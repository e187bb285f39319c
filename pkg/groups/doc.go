// Package groups maintains plugingroups.txt, the per-profile file mapping
// plugin filenames to named groups.
//
// The file is comment-tolerant: a leading comment block is preserved as a
// header, and comments or malformed rows below it survive every rewrite.
// Data rows are `Name|Group`, ordered by the profile's load order where
// possible. The file is only rewritten when an assignment actually changes.
package groups
