package engine

import (
	"github.com/Alaxouche/loadout/pkg/activation"
	"github.com/Alaxouche/loadout/pkg/groups"
	"github.com/Alaxouche/loadout/pkg/loadorder"
	"github.com/Alaxouche/loadout/pkg/modlist"
	"github.com/Alaxouche/loadout/pkg/rules"
)

// CategoryStatus describes one selection category for display layers: its
// canonical name, the rule document's default option, the selectable options
// and whether the document wants it surfaced.
type CategoryStatus struct {
	Name    string   `json:"name"`
	Default string   `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
	Visible bool     `json:"visible"`
}

// Status is a read-only snapshot of one profile: counts from the four state
// files plus the rule document's categories.
type Status struct {
	// Root is the instance root the snapshot was taken from.
	Root string `json:"root"`

	// Profile is the profile the snapshot describes.
	Profile string `json:"profile"`

	// ModsEnabled and ModsTotal count `+` entries and all entries in
	// modlist.txt.
	ModsEnabled int `json:"mods_enabled"`
	ModsTotal   int `json:"mods_total"`

	// Plugins counts loadorder.txt entries; PluginsActive counts starred
	// plugins.txt entries.
	Plugins       int `json:"plugins"`
	PluginsActive int `json:"plugins_active"`

	// Groups counts plugingroups.txt assignment rows.
	Groups int `json:"groups"`

	// Categories lists every selection category in merge order.
	Categories []CategoryStatus `json:"categories,omitempty"`
}

// Status inspects a profile without writing anything: it reads the four
// state files and the rule document and reduces them to counts a shell can
// render. Missing files count as empty, matching how the stages read them.
func (e *Engine) Status(profile string) *Status {
	doc := e.LoadRules()

	st := &Status{
		Root:    e.paths.Root(),
		Profile: profile,
	}

	mlLines := modlist.ReadLines(e.fs, e.paths.ModlistPath(profile))
	st.ModsEnabled = len(modlist.EnabledNames(mlLines))
	st.ModsTotal = len(modlist.AllNames(mlLines))

	st.Plugins = len(loadorder.Read(e.fs, e.paths.LoadOrderPath(profile)))
	st.PluginsActive = len(activation.ActiveNames(
		activation.ReadLines(e.fs, e.paths.PluginsPath(profile))))

	st.Groups = len(groups.Load(e.fs, e.paths.PluginGroupsPath(profile)).Assignments)

	for _, cat := range rules.SelectionCategories() {
		st.Categories = append(st.Categories, CategoryStatus{
			Name:    cat,
			Default: doc.DefaultFor(cat),
			Options: doc.Options(cat),
			Visible: doc.Visible(cat),
		})
	}
	return st
}
