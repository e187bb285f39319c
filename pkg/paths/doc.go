// Package paths provides centralized path handling for loadout.
//
// This package resolves the managed instance root and provides a consistent
// API for every file location the engine touches. It handles:
//
//   - Instance root discovery (explicit, environment, or upward walk)
//   - Profile file locations (modlist.txt, loadorder.txt, plugins.txt,
//     plugingroups.txt)
//   - The rule document and host manager INI at the instance root
//   - XDG directory structure (data, config, cache, state)
//
// # Environment Variables
//
// The package respects the following environment variables:
//
//   - LOADOUT_ROOT: Explicit instance root, skips discovery
//   - LOADOUT_DATA_DIR: Override XDG data directory (default: $XDG_DATA_HOME/loadout)
//   - LOADOUT_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/loadout)
//   - LOADOUT_CACHE_DIR: Override XDG cache directory (default: $XDG_CACHE_HOME/loadout)
//
// # Instance Root Discovery
//
// An instance root is any directory containing both a mods/ and a profiles/
// subdirectory. When no explicit root is given, discovery walks upward from
// the working directory until such a directory is found.
//
// # Usage
//
//	import "github.com/Alaxouche/loadout/pkg/paths"
//
//	p, err := paths.New("")  // Auto-detect instance root
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root := p.Root()                          // /games/skyrim/MO2
//	modlist := p.ModlistPath("Default")       // .../profiles/Default/modlist.txt
//	rules := p.RulesPath()                    // .../loadout.rules.json
package paths
