// pkg/testutil/environment.go
// PURPOSE: Orchestrate test environments with real dependencies

package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/paths"
	"github.com/Alaxouche/loadout/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a managed instance with all dependencies wired
type TestEnvironment struct {
	// Root is the instance root directory
	Root string

	// Core dependencies
	FS    types.FS
	Paths paths.Paths

	// Environment type
	Type EnvType

	// Test context
	t       *testing.T
	tempDir string // Only used for EnvIsolated
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:    t,
		Type: envType,
	}

	switch envType {
	case EnvMemoryOnly:
		env.setupMemoryEnvironment()
	case EnvIsolated:
		env.setupIsolatedEnvironment()
	}

	// Point path resolution at the test instance and keep the XDG
	// directories away from the developer's real home.
	t.Setenv(paths.EnvInstanceRoot, env.Root)
	t.Setenv(paths.EnvDataDir, filepath.Join(env.xdgBase(), "data"))
	t.Setenv(paths.EnvConfigDir, filepath.Join(env.xdgBase(), "config"))
	t.Setenv(paths.EnvCacheDir, filepath.Join(env.xdgBase(), "cache"))

	pathsInstance, err := paths.New(env.Root)
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = pathsInstance

	return env
}

// setupMemoryEnvironment configures a pure in-memory environment
func (env *TestEnvironment) setupMemoryEnvironment() {
	env.Root = "/virtual/instance"
	env.FS = filesystem.NewMemory()

	_ = env.FS.MkdirAll(filepath.Join(env.Root, paths.ModsDirName), 0755)
	_ = env.FS.MkdirAll(filepath.Join(env.Root, paths.ProfilesDirName), 0755)
}

// setupIsolatedEnvironment configures a real filesystem in a temp directory
func (env *TestEnvironment) setupIsolatedEnvironment() {
	env.tempDir = env.t.TempDir()
	env.Root = filepath.Join(env.tempDir, "instance")
	env.FS = filesystem.NewOS()

	_ = env.FS.MkdirAll(filepath.Join(env.Root, paths.ModsDirName), 0755)
	_ = env.FS.MkdirAll(filepath.Join(env.Root, paths.ProfilesDirName), 0755)
}

// xdgBase returns the directory XDG overrides are parked under
func (env *TestEnvironment) xdgBase() string {
	if env.Type == EnvIsolated {
		return filepath.Join(env.tempDir, "xdg")
	}
	return "/virtual/xdg"
}

// SetupMod creates a mod directory with the given files. Map keys are paths
// relative to the mod directory and may contain separators.
func (env *TestEnvironment) SetupMod(name string, files map[string]string) string {
	env.t.Helper()

	modPath := env.Paths.ModDir(name)
	if err := env.FS.MkdirAll(modPath, 0755); err != nil {
		env.t.Fatalf("Failed to create mod directory: %v", err)
	}

	for filePath, content := range files {
		fullPath := filepath.Join(modPath, filePath)

		if dir := filepath.Dir(fullPath); dir != "." {
			if err := env.FS.MkdirAll(dir, 0755); err != nil {
				env.t.Fatalf("Failed to create directory %s: %v", dir, err)
			}
		}

		if err := env.FS.WriteFile(fullPath, []byte(content), 0644); err != nil {
			env.t.Fatalf("Failed to write file %s: %v", filePath, err)
		}
	}

	return modPath
}

// ProfileConfig defines the state files of a test profile. Nil slices are
// not written, so tests can exercise missing-file behavior.
type ProfileConfig struct {
	Modlist   []string
	LoadOrder []string
	Plugins   []string
	Groups    []string
}

// SetupProfile creates a profile directory with the configured state files
func (env *TestEnvironment) SetupProfile(name string, config ProfileConfig) {
	env.t.Helper()

	profilePath := env.Paths.ProfileDir(name)
	if err := env.FS.MkdirAll(profilePath, 0755); err != nil {
		env.t.Fatalf("Failed to create profile directory: %v", err)
	}

	write := func(path string, lines []string) {
		if lines == nil {
			return
		}
		content := strings.Join(lines, "\n") + "\n"
		if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
			env.t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	write(env.Paths.ModlistPath(name), config.Modlist)
	write(env.Paths.LoadOrderPath(name), config.LoadOrder)
	write(env.Paths.PluginsPath(name), config.Plugins)
	write(env.Paths.PluginGroupsPath(name), config.Groups)
}

// WriteRules writes the instance rule document
func (env *TestEnvironment) WriteRules(content string) {
	env.t.Helper()

	if err := env.FS.WriteFile(env.Paths.RulesPath(), []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write rules file: %v", err)
	}
}

// WriteManagerINI writes the host manager's INI at the instance root
func (env *TestEnvironment) WriteManagerINI(lines ...string) {
	env.t.Helper()

	content := strings.Join(lines, "\n") + "\n"
	if err := env.FS.WriteFile(env.Paths.ManagerINIPath(), []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write manager INI: %v", err)
	}
}

// ReadFile reads a file through the environment's filesystem, failing the
// test if the file cannot be read
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()

	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// FileExists reports whether a path exists on the environment's filesystem
func (env *TestEnvironment) FileExists(path string) bool {
	_, err := env.FS.Stat(path)
	return err == nil
}

// WithFileTree creates a complete file tree structure under the instance root
func (env *TestEnvironment) WithFileTree(tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, env.Root, tree)
}

// FileTree represents a directory structure for testing
type FileTree map[string]interface{}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			// It's a file
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			// It's a directory
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
