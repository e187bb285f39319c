// Test Type: Integration Test
// Description: Tests for the engine pipeline: stage order, stage recovery
// and profile resolution

package engine_test

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alaxouche/loadout/pkg/config"
	"github.com/Alaxouche/loadout/pkg/engine"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/testutil"
	"github.com/Alaxouche/loadout/pkg/types"
)

// pipelineRules is a compact rule document exercising every pipeline stage.
const pipelineRules = `{
  "resolution": {
    "1440p": {"enable": ["2K Textures"], "disable": ["4K Textures"]},
    "1080p": {"disable": ["2K Textures", "4K Textures"]}
  },
  "dlss": {
    "On": {"enable": ["Upscaler"]},
    "Off": {"disable": ["Upscaler"]}
  },
  "difficulty": {
    "Hard": {"enable": ["Harder Enemies"]}
  },
  "graphics_framework": {
    "ENB": {"enable": ["ENB Binary"], "disable": ["Community Shaders"]},
    "Community Shaders": {"enable": ["Community Shaders"], "disable": ["ENB Binary"]}
  },
  "enb_preset": {
    "Rudy ENB": {"enable": ["ENB Preset - Rudy"]}
  },
  "defaults": {"DLSS": "On"},
  "plugin_rules": {"rules": [{"match": "HardEnemies.esp", "after": ["Skyrim.esm"]}]},
  "plugin_groups": {"HardEnemies.esp": "Combat"},
  "profile_overrides": {
    "Hardcore": {"disable": ["Upscaler"]}
  }
}`

// newPipelineEnv stands up an instance with two identical profiles and the
// mod directories the rule document references.
func newPipelineEnv(t *testing.T, envType testutil.EnvType) *testutil.TestEnvironment {
	t.Helper()

	env := testutil.NewTestEnvironment(t, envType)
	env.WriteRules(pipelineRules)

	for _, mod := range []string{"2K Textures", "4K Textures", "Upscaler", "Community Shaders", "ENB Binary"} {
		env.SetupMod(mod, nil)
	}
	env.SetupMod("Harder Enemies", map[string]string{"HardEnemies.esp": ""})
	env.SetupMod("Base Pack", map[string]string{"Base.esp": ""})

	profile := testutil.ProfileConfig{
		Modlist: []string{
			"# managed",
			"+4K Textures",
			"-2K Textures",
			"-Harder Enemies",
			"-Upscaler",
			"-Community Shaders",
			"+ENB Binary",
			"+Base Pack",
		},
		LoadOrder: []string{"Skyrim.esm", "Base.esp"},
		Plugins:   []string{"*Skyrim.esm", "*Base.esp"},
	}
	env.SetupProfile("Default", profile)
	env.SetupProfile("Hardcore", profile)
	return env
}

// failWrites injects a write failure on any path containing substr.
type failWrites struct {
	types.FS
	substr string
}

func (f *failWrites) WriteFile(name string, data []byte, perm iofs.FileMode) error {
	if strings.Contains(name, f.substr) {
		return fmt.Errorf("injected write failure for %s", name)
	}
	return f.FS.WriteFile(name, data, perm)
}

func TestRun(t *testing.T) {
	t.Run("full_pipeline_applies_selections", func(t *testing.T) {
		env := newPipelineEnv(t, testutil.EnvMemoryOnly)
		e := engine.New(env.FS, env.Paths, nil)

		sum := e.Run("Default", engine.Selections{
			"Resolution": "2560x1440",
			"difficulty": "Hard",
		}, engine.Options{})

		require.NotNil(t, sum)
		assert.NotEmpty(t, sum.RunID)
		assert.Equal(t, "Default", sum.Profile)
		assert.False(t, sum.Failed())
		assert.Empty(t, sum.Errors)

		assert.Equal(t, "2560x1440 (bucket: 1440p)", sum.Choices["resolution"])
		assert.Equal(t, "Hard", sum.Choices["difficulty"])
		assert.Equal(t, "On", sum.Choices["dlss"])

		// Modlist entries flip in place, disables before enables.
		assert.Equal(t,
			"# managed\n-4K Textures\n+2K Textures\n+Harder Enemies\n+Upscaler\n-Community Shaders\n+ENB Binary\n+Base Pack\n",
			env.ReadFile(env.Paths.ModlistPath("Default")))
		require.NotNil(t, sum.Mods)
		assert.True(t, sum.Mods.Changed)
		assert.Equal(t, 3, sum.Mods.Enabled)
		assert.Equal(t, 1, sum.Mods.Disabled)
		assert.Empty(t, sum.Mods.Unknown)

		// The newly enabled mod's plugin lands after its anchor and is
		// activated.
		assert.Equal(t, "Skyrim.esm\nHardEnemies.esp\nBase.esp\n",
			env.ReadFile(env.Paths.LoadOrderPath("Default")))
		assert.Equal(t, "*Skyrim.esm\n*Base.esp\n*HardEnemies.esp\n",
			env.ReadFile(env.Paths.PluginsPath("Default")))
		require.NotNil(t, sum.Plugins)
		assert.Equal(t, 1, sum.Plugins.Discovered)
		require.Len(t, sum.Plugins.Inserted, 1)
		assert.Equal(t, "HardEnemies.esp", sum.Plugins.Inserted[0].Plugin)
		assert.Empty(t, sum.Plugins.Errors)

		// Group assignments are seeded into a fresh plugingroups.txt.
		assert.Equal(t,
			"# This file is managed by loadout (plugin_groups)\n\nHardEnemies.esp|Combat\n",
			env.ReadFile(env.Paths.PluginGroupsPath("Default")))
		require.NotNil(t, sum.Groups)
		assert.True(t, sum.Groups.Written)
		assert.Equal(t, 1, sum.Groups.Entries)

		// Display INI lands in the overwrite directory with the raw size.
		expectedINI := filepath.Join(env.Paths.OverwriteDir(), "SKSE", "Plugins", "SSEDisplayTweaks.ini")
		assert.Equal(t, expectedINI, sum.DisplayINI)
		ini := env.ReadFile(expectedINI)
		assert.Contains(t, ini, "Resolution=2560x1440")
		assert.Contains(t, ini, "Fullscreen=false")
		assert.Contains(t, ini, "Borderless=true")
	})

	t.Run("second_run_changes_nothing", func(t *testing.T) {
		env := newPipelineEnv(t, testutil.EnvMemoryOnly)
		e := engine.New(env.FS, env.Paths, nil)
		sel := engine.Selections{"resolution": "2560x1440", "difficulty": "Hard"}

		first := e.Run("Default", sel, engine.Options{})
		require.False(t, first.Failed())

		second := e.Run("Default", sel, engine.Options{})
		require.False(t, second.Failed())
		require.NotNil(t, second.Mods)
		assert.False(t, second.Mods.Changed)
		require.NotNil(t, second.Plugins)
		assert.Empty(t, second.Plugins.Inserted)
		require.NotNil(t, second.Groups)
		assert.False(t, second.Groups.Written)
		assert.Equal(t, 1, second.Groups.Entries)
		assert.NotEqual(t, first.RunID, second.RunID)

		assert.Equal(t, "Skyrim.esm\nHardEnemies.esp\nBase.esp\n",
			env.ReadFile(env.Paths.LoadOrderPath("Default")))
	})

	t.Run("stage_failure_is_recovered", func(t *testing.T) {
		env := newPipelineEnv(t, testutil.EnvMemoryOnly)
		fsys := &failWrites{FS: env.FS, substr: "plugingroups.txt"}
		e := engine.New(fsys, env.Paths, nil)

		sum := e.Run("Default", engine.Selections{
			"resolution": "2560x1440",
			"difficulty": "Hard",
		}, engine.Options{})

		assert.True(t, sum.Failed())
		require.Len(t, sum.Errors, 1)
		assert.Contains(t, sum.Errors[0], "sync plugin groups")
		assert.Nil(t, sum.Groups)

		// Every other stage still ran.
		require.NotNil(t, sum.Mods)
		assert.True(t, sum.Mods.Changed)
		require.NotNil(t, sum.Plugins)
		assert.Len(t, sum.Plugins.Inserted, 1)
		assert.NotEmpty(t, sum.DisplayINI)
	})

	t.Run("dry_run_over_scratch_layer_leaves_instance_untouched", func(t *testing.T) {
		env := newPipelineEnv(t, testutil.EnvIsolated)
		originalModlist := env.ReadFile(env.Paths.ModlistPath("Default"))

		scratch := filesystem.NewScratch(afero.NewOsFs())
		e := engine.New(scratch, env.Paths, nil)

		sum := e.Run("Default", engine.Selections{
			"resolution": "2560x1440",
			"difficulty": "Hard",
		}, engine.Options{DryRun: true})

		assert.True(t, sum.DryRun)
		assert.False(t, sum.Failed())
		require.NotNil(t, sum.Mods)
		assert.True(t, sum.Mods.Changed)

		// The scratch layer saw the new state, the instance did not.
		updated, err := scratch.ReadFile(env.Paths.ModlistPath("Default"))
		require.NoError(t, err)
		assert.Contains(t, string(updated), "+2K Textures")
		assert.Equal(t, originalModlist, env.ReadFile(env.Paths.ModlistPath("Default")))
		assert.False(t, env.FileExists(filepath.Join(env.Paths.OverwriteDir(), "SKSE", "Plugins", "SSEDisplayTweaks.ini")))
	})
}

func TestSync(t *testing.T) {
	t.Run("syncs_plugins_and_groups_without_touching_modlist", func(t *testing.T) {
		env := newPipelineEnv(t, testutil.EnvMemoryOnly)
		env.SetupProfile("Default", testutil.ProfileConfig{
			Modlist:   []string{"+Harder Enemies", "+Base Pack"},
			LoadOrder: []string{"Skyrim.esm", "Base.esp"},
			Plugins:   []string{"*Skyrim.esm", "*Base.esp"},
		})
		e := engine.New(env.FS, env.Paths, nil)

		sum := e.Sync("Default")

		require.False(t, sum.Failed())
		assert.Nil(t, sum.Mods)
		require.NotNil(t, sum.Plugins)
		assert.Equal(t, 1, sum.Plugins.Discovered)

		assert.Equal(t, "+Harder Enemies\n+Base Pack\n",
			env.ReadFile(env.Paths.ModlistPath("Default")))
		assert.Equal(t, "Skyrim.esm\nHardEnemies.esp\nBase.esp\n",
			env.ReadFile(env.Paths.LoadOrderPath("Default")))
		assert.Contains(t, env.ReadFile(env.Paths.PluginGroupsPath("Default")),
			"HardEnemies.esp|Combat")
	})

	t.Run("second_sync_changes_nothing", func(t *testing.T) {
		env := newPipelineEnv(t, testutil.EnvMemoryOnly)
		env.SetupProfile("Default", testutil.ProfileConfig{
			Modlist:   []string{"+Harder Enemies", "+Base Pack"},
			LoadOrder: []string{"Skyrim.esm", "Base.esp"},
			Plugins:   []string{"*Skyrim.esm", "*Base.esp"},
		})
		e := engine.New(env.FS, env.Paths, nil)

		first := e.Sync("Default")
		require.False(t, first.Failed())

		second := e.Sync("Default")
		require.False(t, second.Failed())
		assert.Empty(t, second.Plugins.Inserted)
		require.NotNil(t, second.Groups)
		assert.False(t, second.Groups.Written)
	})
}

func TestResolveProfile(t *testing.T) {
	t.Run("explicit_name_wins", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		cfg := config.Default()
		cfg.Core.Profile = "FromConfig"
		e := engine.New(env.FS, env.Paths, cfg)

		assert.Equal(t, "Custom", e.ResolveProfile("Custom"))
	})

	t.Run("configured_profile_beats_manager_selection", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.WriteManagerINI("[General]", "selected_profile=@ByteArray(Legendary)")
		cfg := config.Default()
		cfg.Core.Profile = "FromConfig"
		e := engine.New(env.FS, env.Paths, cfg)

		assert.Equal(t, "FromConfig", e.ResolveProfile(""))
	})

	t.Run("manager_selection_when_unconfigured", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		env.WriteManagerINI("[General]", "selected_profile=@ByteArray(Legendary)")
		e := engine.New(env.FS, env.Paths, nil)

		assert.Equal(t, "Legendary", e.ResolveProfile(""))
	})

	t.Run("default_when_nothing_selects", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		e := engine.New(env.FS, env.Paths, nil)

		assert.Equal(t, "Default", e.ResolveProfile(""))
	})
}

func TestLoadRules(t *testing.T) {
	t.Run("seeds_missing_document_with_packaged_rules", func(t *testing.T) {
		env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
		e := engine.New(env.FS, env.Paths, nil)

		doc := e.LoadRules()
		require.NotNil(t, doc)
		assert.NotEmpty(t, doc.Categories["resolution"])
		assert.True(t, env.FileExists(env.Paths.RulesPath()))
	})

	t.Run("reads_instance_document", func(t *testing.T) {
		env := newPipelineEnv(t, testutil.EnvMemoryOnly)
		e := engine.New(env.FS, env.Paths, nil)

		doc := e.LoadRules()
		require.NotNil(t, doc)
		set, ok := doc.ModSetFor("difficulty", "Hard")
		require.True(t, ok)
		assert.Equal(t, []string{"Harder Enemies"}, set.Enable)
	})
}
