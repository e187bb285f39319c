package activation

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

// defaultHeader seeds plugins.txt when the file is missing or would
// otherwise be written empty.
var defaultHeader = []string{
	"# This file is used by Skyrim to keep track of your downloaded content.",
	"# Managed by loadout - auto-enabled plugins",
}

// ReadLines returns the activation file's lines with line endings stripped.
// A missing file starts from the default header; any other read failure is
// logged and reads as empty.
func ReadLines(fsys types.FS, path string) []string {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return append([]string(nil), defaultHeader...)
		}
		logger := logging.GetLogger("activation")
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Cannot read activation file, treating as empty")
		return nil
	}
	return filesystem.SplitLines(data)
}

// WriteLines atomically replaces the activation file. An empty line set is
// substituted with the default header so the file never goes blank. Parent
// directories are created as needed.
func WriteLines(fsys types.FS, path string, lines []string) error {
	if len(lines) == 0 {
		lines = defaultHeader
	}
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create profile directory").
			WithDetail("path", dir)
	}
	return filesystem.WriteLinesAtomic(fsys, path, lines)
}

// ActiveNames returns the plugins marked active, in file order, with the
// leading asterisk stripped.
func ActiveNames(lines []string) []string {
	var names []string
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if !strings.HasPrefix(s, "*") {
			continue
		}
		if name := strings.TrimSpace(s[1:]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SetActive returns lines with plugin marked active (or inactive) and
// whether anything changed. The match is case-insensitive on the exact
// filename, ignoring a leading asterisk; when the plugin appears more than
// once the last occurrence is rewritten in place. A plugin not present is
// appended. Comment lines and blanks are never candidates.
func SetActive(lines []string, plugin string, active bool) ([]string, bool) {
	target := strings.TrimSpace(plugin)
	key := strings.ToLower(target)

	last := -1
	for i, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		name := s
		if strings.HasPrefix(s, "*") {
			name = strings.TrimSpace(s[1:])
		}
		if strings.ToLower(name) == key {
			last = i
		}
	}

	entry := target
	if active {
		entry = "*" + target
	}

	if last >= 0 {
		if lines[last] == entry {
			return lines, false
		}
		out := make([]string, len(lines))
		copy(out, lines)
		out[last] = entry
		return out, true
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines...)
	out = append(out, entry)
	return out, true
}

// EnsureActive marks one plugin active at path, writing only on change.
func EnsureActive(fsys types.FS, path, plugin string) error {
	lines := ReadLines(fsys, path)
	updated, changed := SetActive(lines, plugin, true)
	if !changed {
		return nil
	}
	if err := WriteLines(fsys, path, updated); err != nil {
		return errors.Wrap(err, errors.ErrPluginActivate, "cannot update activation file").
			WithDetail("plugin", plugin).
			WithDetail("path", path)
	}
	logger := logging.GetLogger("activation")
	logger.Info().
		Str("plugin", plugin).
		Str("path", path).
		Msg("Plugin activated")
	return nil
}

// EnsureAllActive marks every named plugin active, writing at most once.
// It returns the number of entries that changed.
func EnsureAllActive(fsys types.FS, path string, names []string) (int, error) {
	lines := ReadLines(fsys, path)
	changed := 0
	for _, name := range names {
		var c bool
		lines, c = SetActive(lines, name, true)
		if c {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := WriteLines(fsys, path, lines); err != nil {
		return 0, errors.Wrap(err, errors.ErrPluginActivate, "cannot batch-update activation file").
			WithDetail("path", path)
	}
	logger := logging.GetLogger("activation")
	logger.Info().
		Int("changed", changed).
		Str("path", path).
		Msg("Batch activation complete")
	return changed, nil
}
