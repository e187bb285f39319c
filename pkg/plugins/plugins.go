package plugins

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Extension rank buckets. Lower ranks always precede higher ranks in a
// merged load order.
const (
	RankMaster   = 0 // .esm
	RankStandard = 1 // .esp
	RankLight    = 2 // .esl
	RankOther    = 3 // anything else
)

var separatorRE = regexp.MustCompile(`[\s_\-]+`)

// Normalize lowercases name, trims it, and strips every run of whitespace,
// underscores and hyphens. Two plugin names that differ only in case or in
// those separators normalize to the same string.
func Normalize(name string) string {
	return separatorRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}

// ExtRank returns the extension rank bucket for a plugin filename.
// Unrecognized extensions (including names with trailing garbage after the
// extension) fall into RankOther.
func ExtRank(name string) int {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".esm":
		return RankMaster
	case ".esp":
		return RankStandard
	case ".esl":
		return RankLight
	default:
		return RankOther
	}
}

// IsPlugin reports whether name carries one of the recognized plugin
// extensions.
func IsPlugin(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".esp", ".esm", ".esl":
		return true
	}
	return false
}
