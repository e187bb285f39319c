package paths

import (
	"os"
	"path/filepath"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/types"
	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvInstanceRoot is the primary environment variable for the instance root
	EnvInstanceRoot = "LOADOUT_ROOT"

	// EnvDataDir overrides the XDG data directory for loadout
	EnvDataDir = "LOADOUT_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for loadout
	EnvConfigDir = "LOADOUT_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for loadout
	EnvCacheDir = "LOADOUT_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// File and directory names of a managed instance.
// IMPORTANT: These constants mirror the host manager's on-disk layout and
// are NOT user-configurable. User-configurable paths belong in pkg/config.
const (
	// ModsDirName holds one subdirectory per installed mod
	ModsDirName = "mods"

	// ProfilesDirName holds one subdirectory per profile
	ProfilesDirName = "profiles"

	// OverwriteDirName is the staging directory generated files land in
	OverwriteDirName = "overwrite"

	// ModlistFileName is the per-profile mod list
	ModlistFileName = "modlist.txt"

	// LoadOrderFileName is the per-profile plugin load order
	LoadOrderFileName = "loadorder.txt"

	// PluginsFileName is the per-profile plugin activation list
	PluginsFileName = "plugins.txt"

	// PluginGroupsFileName is the per-profile plugin group assignment file
	PluginGroupsFileName = "plugingroups.txt"

	// RulesFileName is the rule document at the instance root
	RulesFileName = "loadout.rules.json"

	// ManagerININame is the host manager's INI at the instance root
	ManagerININame = "ModOrganizer.ini"

	// ConfigFileName is the optional tool configuration at the instance root
	ConfigFileName = "loadout.toml"

	// ModConfigFileName is the optional per-mod discovery configuration
	ModConfigFileName = "loadout.toml"

	// LoadoutDirName is the directory name for loadout-specific XDG files
	LoadoutDirName = "loadout"

	// LogFileName is the name of the log file
	LogFileName = "loadout.log"

	// CapabilityCacheName is the cached capability probe result
	CapabilityCacheName = "capability.json"
)

// Paths provides centralized path management for loadout
type Paths interface {
	types.Pather

	ModConfigPath(mod string) string
	ConfigFilePath() string
	DataDir() string
	ConfigDir() string
	CacheDir() string
	LogFilePath() string
	CapabilityCachePath() string
}

// paths provides centralized path management for loadout
type paths struct {
	// root is the instance root directory
	root string

	// xdgData is the XDG data directory
	xdgData string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgCache is the XDG cache directory
	xdgCache string

	// xdgState is the XDG state directory
	xdgState string
}

// New creates a new Paths instance rooted at the given instance root.
// If root is empty, it is resolved from LOADOUT_ROOT or by walking upward
// from the working directory.
func New(root string) (Paths, error) {
	p := &paths{}

	if root == "" {
		found, err := findInstanceRoot()
		if err != nil {
			return nil, err
		}
		p.root = found
	} else {
		p.root = expandHome(root)
	}

	// Ensure the instance root is absolute
	absRoot, err := filepath.Abs(p.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for instance root")
	}
	p.root = absRoot

	p.setupXDGDirs()

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	// Data directory
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, LoadoutDirName)
	}

	// Config directory
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, LoadoutDirName)
	}

	// Cache directory
	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, LoadoutDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, LoadoutDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", LoadoutDirName)
	}
}

// findInstanceRoot determines the instance root using the following priority:
// 1. LOADOUT_ROOT environment variable (if set)
// 2. Upward walk from the working directory (FindRoot)
func findInstanceRoot() (string, error) {
	if root := os.Getenv(EnvInstanceRoot); root != "" {
		return expandHome(root), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return FindRoot(filesystem.NewOS(), cwd)
}

// FindRoot walks upward from start until it finds a directory containing
// both a mods/ and a profiles/ subdirectory. It returns a coded error
// naming the searched range when no such directory exists.
func FindRoot(fsys types.FS, start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve %s", start)
	}

	for {
		if isInstanceRoot(fsys, dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.Newf(errors.ErrNoRoot,
		"no instance root found: no directory between %s and / contains both %s/ and %s/",
		start, ModsDirName, ProfilesDirName).
		WithDetail("start", start)
}

// isInstanceRoot reports whether dir contains both layout directories.
func isInstanceRoot(fsys types.FS, dir string) bool {
	for _, name := range []string{ModsDirName, ProfilesDirName} {
		info, err := fsys.Stat(filepath.Join(dir, name))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// Root returns the instance root directory
func (p *paths) Root() string {
	return p.root
}

// ModsDir returns the directory holding one subdirectory per mod
func (p *paths) ModsDir() string {
	return filepath.Join(p.root, ModsDirName)
}

// ProfilesDir returns the directory holding one subdirectory per profile
func (p *paths) ProfilesDir() string {
	return filepath.Join(p.root, ProfilesDirName)
}

// OverwriteDir returns the staging directory for generated files
func (p *paths) OverwriteDir() string {
	return filepath.Join(p.root, OverwriteDirName)
}

// ModDir returns the directory of a single mod
func (p *paths) ModDir(mod string) string {
	return filepath.Join(p.ModsDir(), mod)
}

// ModConfigPath returns the path to a mod's optional discovery configuration
func (p *paths) ModConfigPath(mod string) string {
	return filepath.Join(p.ModDir(mod), ModConfigFileName)
}

// ProfileDir returns the directory of a single profile
func (p *paths) ProfileDir(profile string) string {
	return filepath.Join(p.ProfilesDir(), profile)
}

// ModlistPath returns the profile's modlist.txt
func (p *paths) ModlistPath(profile string) string {
	return filepath.Join(p.ProfileDir(profile), ModlistFileName)
}

// LoadOrderPath returns the profile's loadorder.txt
func (p *paths) LoadOrderPath(profile string) string {
	return filepath.Join(p.ProfileDir(profile), LoadOrderFileName)
}

// PluginsPath returns the profile's plugins.txt
func (p *paths) PluginsPath(profile string) string {
	return filepath.Join(p.ProfileDir(profile), PluginsFileName)
}

// PluginGroupsPath returns the profile's plugingroups.txt
func (p *paths) PluginGroupsPath(profile string) string {
	return filepath.Join(p.ProfileDir(profile), PluginGroupsFileName)
}

// RulesPath returns the rule document at the instance root
func (p *paths) RulesPath() string {
	return filepath.Join(p.root, RulesFileName)
}

// ManagerINIPath returns the host manager's INI at the instance root
func (p *paths) ManagerINIPath() string {
	return filepath.Join(p.root, ManagerININame)
}

// ConfigFilePath returns the optional tool configuration at the instance root
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.root, ConfigFileName)
}

// DataDir returns the XDG data directory for loadout
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for loadout
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// CacheDir returns the XDG cache directory for loadout
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// LogFilePath returns the path to the loadout log file
// Respects XDG_STATE_HOME if set
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// CapabilityCachePath returns the cached capability probe result
func (p *paths) CapabilityCachePath() string {
	return filepath.Join(p.xdgCache, CapabilityCacheName)
}
