package plugins

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/paths"
	"github.com/Alaxouche/loadout/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// ModConfig is the optional per-mod loadout.toml in a mod's root directory.
type ModConfig struct {
	// Ignore excludes the mod from plugin discovery entirely.
	Ignore bool `toml:"ignore"`
	// PluginDirs lists extra subdirectories (relative to the mod root) to
	// scan in addition to the conventional data directories.
	PluginDirs []string `toml:"plugin_dirs"`
}

// Discover scans a single mod directory for plugin files. The mod root and
// each data subdirectory are walked recursively; results are deduplicated by
// filename and sorted case-insensitively. A missing or unreadable mod
// directory yields an empty result, never an error: discovery is best-effort
// so one broken mod cannot stall the pipeline.
func Discover(fsys types.FS, modDir string, dataDirs []string) []string {
	logger := logging.GetLogger("plugins.discovery")

	info, err := fsys.Stat(modDir)
	if err != nil || !info.IsDir() {
		logger.Trace().Str("mod", modDir).Msg("Mod directory missing, no plugins")
		return nil
	}

	cfg := loadModConfig(fsys, modDir)
	if cfg.Ignore {
		logger.Debug().Str("mod", modDir).Msg("Mod opted out of plugin discovery")
		return nil
	}

	roots := []string{modDir}
	for _, sub := range dataDirs {
		roots = append(roots, filepath.Join(modDir, sub))
	}
	for _, sub := range cfg.PluginDirs {
		roots = append(roots, filepath.Join(modDir, sub))
	}

	found := make(map[string]struct{})
	for _, root := range roots {
		collectPlugins(fsys, root, found)
	}

	names := sortedNames(found)
	logger.Trace().Str("mod", modDir).Int("count", len(names)).Msg("Discovered plugins for mod")
	return names
}

// DiscoverAll unions the plugins of every named mod under modsDir. Mods are
// visited in sorted name order so logs stay deterministic; the result is the
// deduplicated union sorted case-insensitively.
func DiscoverAll(fsys types.FS, modsDir string, modNames []string, dataDirs []string) []string {
	logger := logging.GetLogger("plugins.discovery")

	mods := make([]string, len(modNames))
	copy(mods, modNames)
	sort.Strings(mods)

	found := make(map[string]struct{})
	for _, mod := range mods {
		for _, plugin := range Discover(fsys, filepath.Join(modsDir, mod), dataDirs) {
			found[plugin] = struct{}{}
		}
	}

	logger.Debug().
		Int("mods", len(mods)).
		Int("plugins", len(found)).
		Msg("Discovered plugins across mods")
	return sortedNames(found)
}

// collectPlugins walks root recursively, adding plugin filenames to found.
// Unreadable directories are skipped silently.
func collectPlugins(fsys types.FS, root string, found map[string]struct{}) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			collectPlugins(fsys, filepath.Join(root, name), found)
			continue
		}
		if IsPlugin(name) {
			found[name] = struct{}{}
		}
	}
}

func loadModConfig(fsys types.FS, modDir string) ModConfig {
	var cfg ModConfig
	path := filepath.Join(modDir, paths.ModConfigFileName)
	data, err := fsys.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		logger := logging.GetLogger("plugins.discovery")
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Ignoring malformed mod config")
		return ModConfig{}
	}
	return cfg
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}
