package modlist

import (
	"sync"
	"time"

	"github.com/Alaxouche/loadout/pkg/types"
)

// enabledCache memoizes the last parse of a modlist, keyed by path and
// modification time. The shell asks for the enabled mods repeatedly between
// file changes, so a single slot is enough.
type enabledCache struct {
	mu    sync.Mutex
	path  string
	mtime time.Time
	names []string
	valid bool
}

var cache enabledCache

// EnabledMods returns the enabled mod names from the modlist at path, in
// file order. The parse is cached against the file's modification time. A
// missing file yields nil.
func EnabledMods(fsys types.FS, path string) []string {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil
	}
	mtime := info.ModTime()

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.valid && cache.path == path && cache.mtime.Equal(mtime) {
		return append([]string(nil), cache.names...)
	}

	names := EnabledNames(ReadLines(fsys, path))
	cache.path = path
	cache.mtime = mtime
	cache.names = names
	cache.valid = true
	return append([]string(nil), names...)
}
