// Test Type: Integration Test
// Description: End-to-end incremental sync against an in-memory instance

package loadorder_test

import (
	"path/filepath"
	"testing"

	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/loadorder"
	"github.com/Alaxouche/loadout/pkg/paths"
	"github.com/Alaxouche/loadout/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstance(t *testing.T, files map[string]string) (types.FS, paths.Paths) {
	t.Helper()
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/instance/mods", 0755))
	require.NoError(t, fsys.MkdirAll("/instance/profiles/Default", 0755))
	for path, content := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
	p, err := paths.New("/instance")
	require.NoError(t, err)
	return fsys, p
}

func readFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSync(t *testing.T) {
	t.Run("places_and_activates_new_plugins", func(t *testing.T) {
		fsys, p := newInstance(t, map[string]string{
			"/instance/mods/Alpha/AlphaQuest.esp":       "",
			"/instance/mods/Alpha/Data/AlphaCore.esm":   "",
			"/instance/mods/Beta/Beta.esp":              "",
			"/instance/profiles/Default/loadorder.txt": "Existing.esp\n",
		})
		rules := []types.PlacementRule{
			{Match: "Beta.esp", Before: types.StringList{"Existing.esp"}},
		}

		result := loadorder.Sync(fsys, p, "Default", []string{"Alpha", "Beta"}, rules, []string{"Data"})

		assert.Equal(t, 3, result.Discovered)
		assert.Len(t, result.Inserted, 3)
		assert.Empty(t, result.Errors)

		order := readFile(t, fsys, "/instance/profiles/Default/loadorder.txt")
		assert.Equal(t, "AlphaCore.esm\nBeta.esp\nExisting.esp\nAlphaQuest.esp\n", order)

		active := readFile(t, fsys, "/instance/profiles/Default/plugins.txt")
		assert.Contains(t, active, "*AlphaCore.esm\n")
		assert.Contains(t, active, "*AlphaQuest.esp\n")
		assert.Contains(t, active, "*Beta.esp\n")
		assert.Contains(t, active, "*Existing.esp\n")
		// The pre-existing entry only gets activated by the final batch pass.
		assert.Equal(t, 1, result.Activated)
	})

	t.Run("rerun_changes_nothing", func(t *testing.T) {
		fsys, p := newInstance(t, map[string]string{
			"/instance/mods/Alpha/One.esp": "",
		})

		first := loadorder.Sync(fsys, p, "Default", []string{"Alpha"}, nil, nil)
		require.Len(t, first.Inserted, 1)
		orderBefore := readFile(t, fsys, "/instance/profiles/Default/loadorder.txt")
		activeBefore := readFile(t, fsys, "/instance/profiles/Default/plugins.txt")

		second := loadorder.Sync(fsys, p, "Default", []string{"Alpha"}, nil, nil)
		assert.Empty(t, second.Inserted)
		assert.Zero(t, second.Activated)
		assert.Equal(t, orderBefore, readFile(t, fsys, "/instance/profiles/Default/loadorder.txt"))
		assert.Equal(t, activeBefore, readFile(t, fsys, "/instance/profiles/Default/plugins.txt"))
	})

	t.Run("case_variant_already_in_order_is_not_reinserted", func(t *testing.T) {
		fsys, p := newInstance(t, map[string]string{
			"/instance/mods/Alpha/Beta.esp":            "",
			"/instance/profiles/Default/loadorder.txt": "beta.esp\n",
		})

		result := loadorder.Sync(fsys, p, "Default", []string{"Alpha"}, nil, nil)

		assert.Empty(t, result.Inserted)
		order := readFile(t, fsys, "/instance/profiles/Default/loadorder.txt")
		assert.Equal(t, "beta.esp\n", order)
	})

	t.Run("disabled_mods_are_not_scanned", func(t *testing.T) {
		fsys, p := newInstance(t, map[string]string{
			"/instance/mods/On/On.esp":   "",
			"/instance/mods/Off/Off.esp": "",
		})

		result := loadorder.Sync(fsys, p, "Default", []string{"On"}, nil, nil)

		require.Len(t, result.Inserted, 1)
		assert.Equal(t, "On.esp", result.Inserted[0].Plugin)
	})

	t.Run("new_masters_go_before_existing_standard_plugins", func(t *testing.T) {
		fsys, p := newInstance(t, map[string]string{
			"/instance/mods/Core/Core.esm":             "",
			"/instance/profiles/Default/loadorder.txt": "Mid.esp\n",
		})

		loadorder.Sync(fsys, p, "Default", []string{"Core"}, nil, nil)

		order := readFile(t, fsys, "/instance/profiles/Default/loadorder.txt")
		assert.Equal(t, "Core.esm\nMid.esp\n", order)
	})
}
