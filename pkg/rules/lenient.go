package rules

import (
	"bytes"
	"regexp"
)

var (
	bom                = []byte{0xEF, 0xBB, 0xBF}
	lineCommentSlashRE = regexp.MustCompile(`(?m)^\s*//.*$`)
	lineCommentHashRE  = regexp.MustCompile(`(?m)^\s*#.*$`)
	trailingCommaRE    = regexp.MustCompile(`,(\s*[}\]])`)
)

// stripLenient removes the hand-editing conveniences from a rule document:
// a UTF-8 BOM, full-line // and # comments, and trailing commas before a
// closing brace or bracket. Comments sharing a line with data are left
// alone, since the marker could sit inside a string value.
func stripLenient(data []byte) []byte {
	data = bytes.TrimPrefix(data, bom)
	data = lineCommentSlashRE.ReplaceAll(data, nil)
	data = lineCommentHashRE.ReplaceAll(data, nil)
	data = trailingCommaRE.ReplaceAll(data, []byte("$1"))
	return data
}
