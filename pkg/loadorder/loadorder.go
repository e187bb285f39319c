package loadorder

import (
	"path/filepath"
	"strings"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

// Read returns the load order stored at path: one plugin per line, trimmed,
// with blanks and #-comments skipped. A missing or unreadable file reads as
// an empty order so callers always start from a usable state.
func Read(fsys types.FS, path string) []string {
	lines, err := filesystem.ReadLines(fsys, path)
	if err != nil {
		logger := logging.GetLogger("loadorder")
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Cannot read load order, treating as empty")
		return nil
	}

	var order []string
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		order = append(order, s)
	}
	return order
}

// Write atomically replaces the load order at path, one plugin per line.
// Comments are never re-emitted. Parent directories are created as needed.
func Write(fsys types.FS, path string, order []string) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "cannot create profile directory").
			WithDetail("path", dir)
	}
	return filesystem.WriteLinesAtomic(fsys, path, order)
}
