package config

import (
	"time"
)

// Config is the fully resolved tool configuration.
type Config struct {
	Core       CoreConfig       `koanf:"core"`
	Discovery  DiscoveryConfig  `koanf:"discovery"`
	Display    DisplayConfig    `koanf:"display"`
	Capability CapabilityConfig `koanf:"capability"`
	Watch      WatchConfig      `koanf:"watch"`
}

// CoreConfig selects which profile the engine operates on.
type CoreConfig struct {
	// Profile is the profile name to use. Empty means: read the host
	// manager's selected profile, falling back to "Default".
	Profile string `koanf:"profile"`
}

// DiscoveryConfig tunes plugin discovery inside mod directories.
type DiscoveryConfig struct {
	// DataDirs are the conventional data subdirectories scanned inside
	// each mod in addition to the mod root.
	DataDirs []string `koanf:"data_dirs"`
}

// DisplayConfig locates the display INI the resolution stage patches.
type DisplayConfig struct {
	// INIRelPath is the path of the display INI relative to a mod root
	// (and to the overwrite directory when writing).
	INIRelPath string `koanf:"ini_relpath"`
}

// CapabilityConfig tunes the capability report evaluation.
type CapabilityConfig struct {
	// MinWDDM is the minimum driver model version considered
	// upscaler-capable.
	MinWDDM float64 `koanf:"min_wddm"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	// Debounce is how long to coalesce file events before re-running.
	Debounce time.Duration `koanf:"debounce"`
}
