// Test Type: Unit Test
// Description: Tests for modlist.txt entry rewriting and set application

package modlist_test

import (
	"testing"
	"time"

	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/modlist"
	"github.com/Alaxouche/loadout/pkg/paths"
	"github.com/Alaxouche/loadout/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEntry(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		mod      string
		enabled  bool
		expected []string
	}{
		{
			name:     "enables_disabled_entry_in_place",
			lines:    []string{"+Other", "-Target", "+Last"},
			mod:      "Target",
			enabled:  true,
			expected: []string{"+Other", "+Target", "+Last"},
		},
		{
			name:     "disables_enabled_entry_in_place",
			lines:    []string{"+Target"},
			mod:      "Target",
			enabled:  false,
			expected: []string{"-Target"},
		},
		{
			name:     "absent_mod_appended_at_end",
			lines:    []string{"# header", "+Other"},
			mod:      "New Mod",
			enabled:  true,
			expected: []string{"# header", "+Other", "+New Mod"},
		},
		{
			name:     "duplicates_collapse_onto_last_occurrence",
			lines:    []string{"+A", "-Dup", "+B", "+Dup", "+C"},
			mod:      "Dup",
			enabled:  true,
			expected: []string{"+A", "+B", "+Dup", "+C"},
		},
		{
			name:     "comment_naming_the_mod_is_untouched",
			lines:    []string{"#Target", "+Target"},
			mod:      "Target",
			enabled:  false,
			expected: []string{"#Target", "-Target"},
		},
		{
			name:     "match_is_case_sensitive",
			lines:    []string{"+target"},
			mod:      "Target",
			enabled:  true,
			expected: []string{"+target", "+Target"},
		},
		{
			name:     "padded_payload_still_matches",
			lines:    []string{"+  Target  "},
			mod:      "Target",
			enabled:  false,
			expected: []string{"-Target"},
		},
		{
			name:     "empty_file_gets_single_entry",
			lines:    nil,
			mod:      "Solo",
			enabled:  true,
			expected: []string{"+Solo"},
		},
		{
			name:     "blank_lines_survive",
			lines:    []string{"+A", "", "-B"},
			mod:      "C",
			enabled:  false,
			expected: []string{"+A", "", "-B", "-C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, modlist.SetEntry(tt.lines, tt.mod, tt.enabled))
		})
	}
}

func TestEnabledNames(t *testing.T) {
	lines := []string{
		"# managed by the launcher",
		"+Alpha",
		"-Beta",
		"+ Gamma ",
		"",
		"*Unmanaged",
		"+Delta",
	}
	assert.Equal(t, []string{"Alpha", "Gamma", "Delta"}, modlist.EnabledNames(lines))
}

func TestAllNames(t *testing.T) {
	lines := []string{
		"# managed by the launcher",
		"+Alpha",
		"-Beta",
		"+ Gamma ",
		"",
		"*Unmanaged",
		"+Delta",
	}
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma", "Delta"}, modlist.AllNames(lines))
	assert.Nil(t, modlist.AllNames(nil))
}

func modInstance(t *testing.T, files map[string]string) (types.FS, paths.Paths) {
	t.Helper()
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/instance/mods", 0755))
	require.NoError(t, fsys.MkdirAll("/instance/profiles/Default", 0755))
	for path, content := range files {
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
	}
	p, err := paths.New("/instance")
	require.NoError(t, err)
	return fsys, p
}

func TestApply(t *testing.T) {
	t.Run("writes_disables_then_enables_sorted", func(t *testing.T) {
		fsys, p := modInstance(t, nil)
		require.NoError(t, fsys.MkdirAll("/instance/mods/A", 0755))
		require.NoError(t, fsys.MkdirAll("/instance/mods/B", 0755))
		require.NoError(t, fsys.MkdirAll("/instance/mods/C", 0755))
		require.NoError(t, fsys.MkdirAll("/instance/mods/D", 0755))

		set := types.ModSet{Enable: []string{"D", "C"}, Disable: []string{"B", "A"}}
		result, err := modlist.Apply(fsys, p, "Default", set)
		require.NoError(t, err)

		assert.True(t, result.Changed)
		assert.Equal(t, 2, result.Enabled)
		assert.Equal(t, 2, result.Disabled)

		data, err := fsys.ReadFile("/instance/profiles/Default/modlist.txt")
		require.NoError(t, err)
		assert.Equal(t, "-A\n-B\n+C\n+D\n", string(data))
	})

	t.Run("overlapping_mod_ends_up_disabled", func(t *testing.T) {
		fsys, p := modInstance(t, nil)
		require.NoError(t, fsys.MkdirAll("/instance/mods/Both", 0755))

		set := types.ModSet{Enable: []string{"Both"}, Disable: []string{"Both"}}
		result, err := modlist.Apply(fsys, p, "Default", set)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Enabled)
		assert.Equal(t, 1, result.Disabled)

		data, err := fsys.ReadFile("/instance/profiles/Default/modlist.txt")
		require.NoError(t, err)
		assert.Equal(t, "-Both\n", string(data))
	})

	t.Run("second_run_is_a_noop", func(t *testing.T) {
		fsys, p := modInstance(t, nil)
		require.NoError(t, fsys.MkdirAll("/instance/mods/M", 0755))
		set := types.ModSet{Enable: []string{"M"}}

		first, err := modlist.Apply(fsys, p, "Default", set)
		require.NoError(t, err)
		assert.True(t, first.Changed)

		second, err := modlist.Apply(fsys, p, "Default", set)
		require.NoError(t, err)
		assert.False(t, second.Changed)
	})

	t.Run("unknown_mods_reported_but_applied", func(t *testing.T) {
		fsys, p := modInstance(t, nil)
		require.NoError(t, fsys.MkdirAll("/instance/mods/Known", 0755))

		set := types.ModSet{Enable: []string{"Known", "Ghost"}}
		result, err := modlist.Apply(fsys, p, "Default", set)
		require.NoError(t, err)

		assert.Equal(t, []string{"Ghost"}, result.Unknown)
		data, err := fsys.ReadFile("/instance/profiles/Default/modlist.txt")
		require.NoError(t, err)
		assert.Contains(t, string(data), "+Ghost\n")
		assert.Contains(t, string(data), "+Known\n")
	})

	t.Run("preserves_comments_and_foreign_lines", func(t *testing.T) {
		fsys, p := modInstance(t, map[string]string{
			"/instance/profiles/Default/modlist.txt": "# managed list\n*Separator\n+Old\n",
		})

		set := types.ModSet{Disable: []string{"Old"}}
		_, err := modlist.Apply(fsys, p, "Default", set)
		require.NoError(t, err)

		data, err := fsys.ReadFile("/instance/profiles/Default/modlist.txt")
		require.NoError(t, err)
		assert.Equal(t, "# managed list\n*Separator\n-Old\n", string(data))
	})
}

func TestEnabledMods(t *testing.T) {
	t.Run("returns_enabled_names", func(t *testing.T) {
		fsys, p := modInstance(t, map[string]string{
			"/instance/profiles/Default/modlist.txt": "+A\n-B\n+C\n",
		})

		got := modlist.EnabledMods(fsys, p.ModlistPath("Default"))
		assert.Equal(t, []string{"A", "C"}, got)
	})

	t.Run("missing_file_yields_nil", func(t *testing.T) {
		fsys, p := modInstance(t, nil)
		assert.Nil(t, modlist.EnabledMods(fsys, p.ModlistPath("Default")))
	})

	t.Run("sees_changes_after_rewrite", func(t *testing.T) {
		fsys, p := modInstance(t, map[string]string{
			"/instance/profiles/Default/modlist.txt": "+A\n",
		})
		path := p.ModlistPath("Default")

		assert.Equal(t, []string{"A"}, modlist.EnabledMods(fsys, path))

		// Give the modification time room to move.
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, fsys.WriteFile(path, []byte("+A\n+B\n"), 0644))

		assert.Equal(t, []string{"A", "B"}, modlist.EnabledMods(fsys, path))
	})
}
