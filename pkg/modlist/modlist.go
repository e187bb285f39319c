package modlist

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

// Result reports what one Apply did.
type Result struct {
	Enabled  int      `json:"enabled"`
	Disabled int      `json:"disabled"`
	Changed  bool     `json:"changed"`
	Unknown  []string `json:"unknown,omitempty"`
}

// ReadLines returns the modlist's lines with endings stripped. A missing
// file reads as empty; other failures are logged and read as empty too.
func ReadLines(fsys types.FS, path string) []string {
	lines, err := filesystem.ReadLines(fsys, path)
	if err != nil {
		logger := logging.GetLogger("modlist")
		logger.Error().
			Err(err).
			Str("path", path).
			Msg("Cannot read modlist, treating as empty")
		return nil
	}
	return lines
}

// isEntryFor reports whether line is a mod entry for mod: at least a sign
// plus payload, with the payload (trimmed) equal to mod case-sensitively.
// Comments and blanks are never entries.
func isEntryFor(line, mod string) bool {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return false
	}
	return len(s) >= 2 && strings.TrimSpace(s[1:]) == mod
}

// SetEntry returns lines with mod's entry set to `+mod` or `-mod`. Repeated
// entries collapse onto the last occurrence, which keeps its position; a
// mod with no entry is appended at the end. All other lines pass through
// untouched.
func SetEntry(lines []string, mod string, enabled bool) []string {
	sign := "-"
	if enabled {
		sign = "+"
	}
	entry := sign + mod

	matched := false
	insertAt := 0
	filtered := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		if isEntryFor(line, mod) {
			matched = true
			insertAt = len(filtered)
			continue
		}
		filtered = append(filtered, line)
	}

	if !matched {
		return append(filtered, entry)
	}

	out := make([]string, 0, len(filtered)+1)
	out = append(out, filtered[:insertAt]...)
	out = append(out, entry)
	out = append(out, filtered[insertAt:]...)
	return out
}

// EnabledNames returns the names of `+` entries in file order, trimmed.
func EnabledNames(lines []string) []string {
	var names []string
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if s[0] == '+' {
			names = append(names, strings.TrimSpace(s[1:]))
		}
	}
	return names
}

// AllNames returns the names of all entries in file order regardless of
// sign, trimmed.
func AllNames(lines []string) []string {
	var names []string
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if s[0] == '+' || s[0] == '-' {
			names = append(names, strings.TrimSpace(s[1:]))
		}
	}
	return names
}

// Apply reconciles a profile's modlist with a mod set. A mod listed in both
// halves ends up disabled. Disables are applied first, then enables, each
// in sorted name order, so repeated runs produce identical files. Mods
// without a directory under mods/ are applied anyway but logged, since a
// typo in a rule document is the usual cause. The file is written only when
// its content changed.
func Apply(fsys types.FS, pather types.Pather, profile string, set types.ModSet) (*Result, error) {
	logger := logging.GetLogger("modlist")
	path := pather.ModlistPath(profile)

	enable := make(map[string]struct{}, len(set.Enable))
	for _, mod := range set.Enable {
		enable[mod] = struct{}{}
	}
	disable := make(map[string]struct{}, len(set.Disable))
	for _, mod := range set.Disable {
		disable[mod] = struct{}{}
		delete(enable, mod)
	}

	result := &Result{Enabled: len(enable), Disabled: len(disable)}
	result.Unknown = unknownMods(fsys, pather.ModsDir(), enable, disable)
	if len(result.Unknown) > 0 {
		logger.Warn().
			Strs("mods", result.Unknown).
			Str("profile", profile).
			Msg("Mods not present under mods/")
	}

	lines := ReadLines(fsys, path)
	updated := lines
	for _, mod := range sortedKeys(disable) {
		updated = SetEntry(updated, mod, false)
	}
	for _, mod := range sortedKeys(enable) {
		updated = SetEntry(updated, mod, true)
	}

	if equalLines(lines, updated) {
		logger.Info().Str("profile", profile).Msg("Modlist already up to date")
		return result, nil
	}

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return result, errors.Wrap(err, errors.ErrDirCreate, "cannot create profile directory").
			WithDetail("path", dir)
	}
	if err := filesystem.WriteLinesAtomic(fsys, path, updated); err != nil {
		return result, err
	}
	result.Changed = true
	logger.Info().
		Str("profile", profile).
		Int("enabled", result.Enabled).
		Int("disabled", result.Disabled).
		Msg("Modlist applied")
	return result, nil
}

// unknownMods returns the sorted union of set members with no directory
// under modsDir. An unreadable modsDir disables the check.
func unknownMods(fsys types.FS, modsDir string, sets ...map[string]struct{}) []string {
	entries, err := fsys.ReadDir(modsDir)
	if err != nil {
		logger := logging.GetLogger("modlist")
		logger.Debug().
			Err(err).
			Str("path", modsDir).
			Msg("Cannot list mods directory, skipping unknown-mod check")
		return nil
	}
	existing := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		existing[entry.Name()] = struct{}{}
	}

	var unknown []string
	for _, set := range sets {
		for mod := range set {
			if _, ok := existing[mod]; !ok {
				unknown = append(unknown, mod)
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
