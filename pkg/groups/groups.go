package groups

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/loadorder"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

// defaultHeader seeds plugingroups.txt when the file is missing or carries
// no leading comment block.
var defaultHeader = []string{"# This file is managed by loadout (plugin_groups)"}

// Assignment is one data row: a plugin filename mapped to its group.
type Assignment struct {
	Plugin string
	Group  string
}

// File is the parsed form of plugingroups.txt. Header holds the leading
// comment block verbatim; Others holds post-header comments, blanks and
// malformed rows, also verbatim. Assignments are deduplicated by
// case-insensitive plugin name, first row wins.
type File struct {
	Header      []string
	Others      []string
	Assignments []Assignment
}

// Result reports what one group sync did.
type Result struct {
	Written bool `json:"written"`
	Entries int  `json:"entries"`
}

// Parse splits plugingroups.txt lines into header, assignments and
// leftovers. A data row is `Name|Group`, split on the first pipe with both
// sides trimmed; rows missing either side land in Others untouched.
func Parse(lines []string) *File {
	f := &File{}
	dataSeen := false
	index := make(map[string]int)

	for _, raw := range lines {
		s := strings.TrimSpace(raw)
		if s == "" || strings.HasPrefix(s, "#") {
			if dataSeen {
				f.Others = append(f.Others, raw)
			} else {
				f.Header = append(f.Header, raw)
			}
			continue
		}
		dataSeen = true
		if left, right, ok := strings.Cut(s, "|"); ok {
			plugin := strings.TrimSpace(left)
			group := strings.TrimSpace(right)
			if plugin != "" && group != "" {
				key := strings.ToLower(plugin)
				if _, dup := index[key]; !dup {
					index[key] = len(f.Assignments)
					f.Assignments = append(f.Assignments, Assignment{Plugin: plugin, Group: group})
				}
				continue
			}
		}
		f.Others = append(f.Others, raw)
	}

	if len(f.Header) == 0 {
		f.Header = append([]string(nil), defaultHeader...)
	}
	return f
}

// Merge applies incoming assignments over the file's rows and reports
// whether anything changed. Matching is case-insensitive on the plugin
// name; an existing row keeps its on-disk spelling and only its group
// moves, while unseen names are appended with the incoming spelling.
// Incoming names are processed in case-insensitive sorted order so repeat
// runs write identical files.
func (f *File) Merge(incoming map[string]string) bool {
	names := make([]string, 0, len(incoming))
	for name := range incoming {
		if strings.TrimSpace(name) != "" && strings.TrimSpace(incoming[name]) != "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})

	index := make(map[string]int, len(f.Assignments))
	for i, a := range f.Assignments {
		index[strings.ToLower(a.Plugin)] = i
	}

	changed := false
	for _, name := range names {
		plugin := strings.TrimSpace(name)
		group := strings.TrimSpace(incoming[name])
		if i, ok := index[strings.ToLower(plugin)]; ok {
			if f.Assignments[i].Group != group {
				f.Assignments[i].Group = group
				changed = true
			}
			continue
		}
		index[strings.ToLower(plugin)] = len(f.Assignments)
		f.Assignments = append(f.Assignments, Assignment{Plugin: plugin, Group: group})
		changed = true
	}
	return changed
}

// Render lays the file out for writing: the header (followed by a blank
// separator when its last line is not already blank), the preserved
// leftovers, the assigned plugins in load-order sequence, then every
// remaining assignment sorted case-insensitively.
func (f *File) Render(order []string) []string {
	out := append([]string(nil), f.Header...)
	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
		out = append(out, "")
	}
	out = append(out, f.Others...)

	index := make(map[string]int, len(f.Assignments))
	for i, a := range f.Assignments {
		index[strings.ToLower(a.Plugin)] = i
	}

	seen := make(map[string]struct{}, len(f.Assignments))
	for _, name := range order {
		key := strings.ToLower(strings.TrimSpace(name))
		i, ok := index[key]
		if !ok {
			continue
		}
		if _, done := seen[key]; done {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f.Assignments[i].Plugin+"|"+f.Assignments[i].Group)
	}

	rest := make([]Assignment, 0, len(f.Assignments))
	for _, a := range f.Assignments {
		if _, done := seen[strings.ToLower(a.Plugin)]; !done {
			rest = append(rest, a)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		li, lj := strings.ToLower(rest[i].Plugin), strings.ToLower(rest[j].Plugin)
		if li != lj {
			return li < lj
		}
		return rest[i].Plugin < rest[j].Plugin
	})
	for _, a := range rest {
		out = append(out, a.Plugin+"|"+a.Group)
	}
	return out
}

// Load parses the plugin groups file at path. Missing or unreadable files
// parse as empty, with the default header filled in.
func Load(fsys types.FS, path string) *File {
	return Parse(readGroupLines(fsys, path))
}

// Sync folds the rule document's group assignments into a profile's
// plugingroups.txt, ordering the rows by the profile's current load order.
// An empty assignment map is a no-op, and an unchanged file is never
// rewritten.
func Sync(fsys types.FS, groupsPath, orderPath string, assignments map[string]string) (*Result, error) {
	logger := logging.GetLogger("groups")

	if len(assignments) == 0 {
		logger.Info().Msg("No group assignments, skipping plugingroups.txt")
		return &Result{}, nil
	}

	f := Load(fsys, groupsPath)
	if !f.Merge(assignments) {
		logger.Info().Str("path", groupsPath).Msg("Plugin groups already up to date")
		return &Result{Entries: len(f.Assignments)}, nil
	}

	order := loadorder.Read(fsys, orderPath)
	dir := filepath.Dir(groupsPath)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "cannot create profile directory").
			WithDetail("path", dir)
	}
	if err := filesystem.WriteLinesAtomic(fsys, groupsPath, f.Render(order)); err != nil {
		return nil, err
	}
	logger.Info().
		Int("entries", len(f.Assignments)).
		Str("path", groupsPath).
		Msg("Plugin groups synchronized")
	return &Result{Written: true, Entries: len(f.Assignments)}, nil
}

// readGroupLines reads the existing file, treating a missing or unreadable
// one as empty so the sync can still seed it.
func readGroupLines(fsys types.FS, path string) []string {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger := logging.GetLogger("groups")
			logger.Warn().
				Err(err).
				Str("path", path).
				Msg("Cannot read plugin groups, starting fresh")
		}
		return nil
	}
	return filesystem.SplitLines(data)
}
