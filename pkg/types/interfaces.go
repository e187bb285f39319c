package types

import (
	"io/fs"
)

// FS is the filesystem interface required for loadout operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
}

// Pather provides the file locations of a managed instance. Profile-scoped
// methods take the profile name as written on disk.
type Pather interface {
	// Root returns the instance root directory
	Root() string

	// ModsDir returns the directory holding one subdirectory per mod
	ModsDir() string

	// ProfilesDir returns the directory holding one subdirectory per profile
	ProfilesDir() string

	// OverwriteDir returns the staging directory for generated files
	OverwriteDir() string

	// ModDir returns the directory of a single mod
	ModDir(mod string) string

	// ProfileDir returns the directory of a single profile
	ProfileDir(profile string) string

	// ModlistPath returns the profile's modlist.txt
	ModlistPath(profile string) string

	// LoadOrderPath returns the profile's loadorder.txt
	LoadOrderPath(profile string) string

	// PluginsPath returns the profile's plugins.txt
	PluginsPath(profile string) string

	// PluginGroupsPath returns the profile's plugingroups.txt
	PluginGroupsPath(profile string) string

	// RulesPath returns the rule document at the instance root
	RulesPath() string

	// ManagerINIPath returns the host manager's INI at the instance root
	ManagerINIPath() string
}
