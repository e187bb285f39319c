// Package manager reads the few things loadout needs from the host mod
// manager's own configuration, without taking a dependency on its format
// beyond the keys used.
package manager

import (
	"os"
	"strings"

	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

// DefaultProfile is the profile assumed when the manager INI does not name
// one.
const DefaultProfile = "Default"

// SelectedProfile returns the profile the host manager has selected,
// reading the `selected_profile` key from its INI (conventionally under
// [General]). Qt's `@ByteArray(...)` wrapping and surrounding quotes are
// stripped. A missing file, missing key or empty value yields
// DefaultProfile.
func SelectedProfile(fsys types.FS, path string) string {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger := logging.GetLogger("manager")
			logger.Warn().
				Err(err).
				Str("path", path).
				Msg("Cannot read manager INI, assuming default profile")
		}
		return DefaultProfile
	}

	for _, line := range filesystem.SplitLines(data) {
		s := strings.TrimSpace(line)
		if !strings.HasPrefix(s, "selected_profile") {
			continue
		}
		_, raw, ok := strings.Cut(s, "=")
		if !ok {
			continue
		}
		name := strings.TrimSpace(raw)
		name = strings.TrimPrefix(name, "@ByteArray(")
		name = strings.ReplaceAll(name, ")", "")
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name == "" {
			return DefaultProfile
		}
		return name
	}
	return DefaultProfile
}
