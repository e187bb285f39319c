// Package output writes engine reports in the caller's chosen format.
//
// Three formats are supported: human-readable text (rendered through
// pkg/style), indented JSON, and YAML. The machine formats encode the
// report structs under their json field names, so the three formats always
// agree on naming.
package output
