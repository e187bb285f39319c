// Package config handles tool configuration for loadout.
// It supports loading configuration from multiple sources: embedded TOML
// defaults, an optional loadout.toml at the instance root, and
// LOADOUT_-prefixed environment variables.
package config
