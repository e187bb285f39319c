package rules

import (
	"sort"
	"strings"

	"github.com/Alaxouche/loadout/pkg/types"
)

// Canonical selection categories, in document order.
const (
	CategoryResolution        = "resolution"
	CategoryDLSS              = "dlss"
	CategoryDifficulty        = "difficulty"
	CategoryMainMenu          = "main_menu"
	CategoryNSFW              = "nsfw"
	CategoryGamepad           = "gamepad"
	CategoryGraphicsFramework = "graphics_framework"
	CategoryENBPreset         = "enb_preset"
	CategoryPoise             = "poise"
	CategoryINIBase           = "ini_base"
	CategoryAntiAliasing      = "anti_aliasing"
	CategoryNPCResistances    = "npc_resistances"
	CategoryUIMod             = "ui_mod"
)

// selectionCategories lists every canonical selection category in the order
// selections are merged.
var selectionCategories = []string{
	CategoryResolution,
	CategoryDLSS,
	CategoryDifficulty,
	CategoryMainMenu,
	CategoryNSFW,
	CategoryGamepad,
	CategoryGraphicsFramework,
	CategoryENBPreset,
	CategoryPoise,
	CategoryINIBase,
	CategoryAntiAliasing,
	CategoryNPCResistances,
	CategoryUIMod,
}

// categoryAliases maps each canonical key to the spellings accepted in rule
// documents, in match priority order. Comparison is case-insensitive.
var categoryAliases = map[string][]string{
	CategoryDLSS:              {"dlss", "DLSS", "framegen", "frame generation", "Frame Generation"},
	CategoryResolution:        {"resolution", "Resolution"},
	CategoryDifficulty:        {"difficulty", "Difficulty"},
	CategoryMainMenu:          {"main_menu", "main menu", "Main Menu"},
	CategoryNSFW:              {"nsfw", "NSFW"},
	CategoryGamepad:           {"gamepad", "controller", "pad", "Gamepad"},
	CategoryGraphicsFramework: {"graphics_framework", "framework", "graphics framework", "Framework"},
	CategoryENBPreset:         {"enb_preset", "enb preset", "enb", "ENB Preset"},
	CategoryPoise:             {"poise", "poise_system", "Poise"},
	CategoryINIBase:           {"ini_base", "ini base", "ini preset", "INI Base"},
	CategoryAntiAliasing:      {"anti_aliasing", "anti aliasing", "aa", "Anti-aliasing"},
	CategoryNPCResistances:    {"npc_resistances", "npc resistances", "NPC Resistances"},
	CategoryUIMod:             {"ui_mod", "ui mod", "ui", "UI Mod"},
	keyProfileOverrides:       {"profile_overrides", "profile overrides"},
}

// Structural keys, matched exactly (no aliasing except profile_overrides).
const (
	keyUIVisibility     = "ui_visibility"
	keyProfileOverrides = "profile_overrides"
	keyDefaults         = "defaults"
	keyPreviews         = "previews"
	keyPluginRules      = "plugin_rules"
	keyPluginGroups     = "plugin_groups"
)

// SelectionCategories returns the canonical selection categories in merge
// order. The returned slice is shared; callers must not modify it.
func SelectionCategories() []string {
	return selectionCategories
}

// CanonicalCategory resolves a user-facing spelling onto its canonical
// selection category through the alias table, case-insensitively.
func CanonicalCategory(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, canon := range selectionCategories {
		for _, alias := range categoryAliases[canon] {
			if strings.ToLower(alias) == needle {
				return canon, true
			}
		}
	}
	return "", false
}

// Category maps an option label to the mod set it switches on.
type Category map[string]types.ModSet

// Document is a fully resolved rule document: every canonical category is
// present, either from the file or from the packaged defaults. The json
// tags shape the output of shells that dump the effective document;
// decoding is the store's overlay pass, not encoding/json.
type Document struct {
	// Categories holds the selection categories keyed by canonical name.
	Categories map[string]Category `json:"categories"`

	// UIVisibility says which categories the caller should surface. Every
	// canonical category has an entry.
	UIVisibility map[string]bool `json:"ui_visibility"`

	// ProfileOverrides are per-profile mod sets merged after all category
	// selections.
	ProfileOverrides map[string]types.ModSet `json:"profile_overrides,omitempty"`

	// Defaults picks a default option label per category.
	Defaults map[string]string `json:"defaults,omitempty"`

	// Previews maps category and option to a preview image path. The engine
	// carries it for display layers; nothing here interprets it.
	Previews map[string]map[string]string `json:"previews,omitempty"`

	// PluginRules steer load-order placement of new plugins.
	PluginRules []types.PlacementRule `json:"plugin_rules,omitempty"`

	// PluginGroups assigns plugins to named groups.
	PluginGroups map[string]string `json:"plugin_groups,omitempty"`
}

// ModSetFor returns the mod set behind an option label of a canonical
// category. The option label must match exactly.
func (d *Document) ModSetFor(category, option string) (types.ModSet, bool) {
	cat, ok := d.Categories[category]
	if !ok {
		return types.ModSet{}, false
	}
	set, ok := cat[option]
	return set, ok
}

// DefaultFor returns the default option label for a canonical category,
// resolving aliased spellings in the defaults block. Empty when the document
// names none.
func (d *Document) DefaultFor(category string) string {
	if opt, ok := d.Defaults[category]; ok {
		return opt
	}
	for name, opt := range d.Defaults {
		if canon, ok := CanonicalCategory(name); ok && canon == category {
			return opt
		}
	}
	return ""
}

// Visible reports whether a category should be surfaced. Unknown categories
// are visible.
func (d *Document) Visible(category string) bool {
	if v, ok := d.UIVisibility[category]; ok {
		return v
	}
	return true
}

// Options returns a category's option labels, sorted for stable display.
func (d *Document) Options(category string) []string {
	cat, ok := d.Categories[category]
	if !ok {
		return nil
	}
	labels := make([]string, 0, len(cat))
	for label := range cat {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// OverridesFor returns the profile's override mod set, empty when none.
func (d *Document) OverridesFor(profile string) types.ModSet {
	return d.ProfileOverrides[profile]
}

// allVisible returns the base visibility map with every selection category
// switched on.
func allVisible() map[string]bool {
	out := make(map[string]bool, len(selectionCategories))
	for _, cat := range selectionCategories {
		out[cat] = true
	}
	return out
}

// clone deep-copies the document so cached state never leaks to callers.
func (d *Document) clone() *Document {
	out := &Document{
		Categories:       make(map[string]Category, len(d.Categories)),
		UIVisibility:     make(map[string]bool, len(d.UIVisibility)),
		ProfileOverrides: make(map[string]types.ModSet, len(d.ProfileOverrides)),
		Defaults:         make(map[string]string, len(d.Defaults)),
		Previews:         make(map[string]map[string]string, len(d.Previews)),
		PluginGroups:     make(map[string]string, len(d.PluginGroups)),
	}
	for name, cat := range d.Categories {
		cc := make(Category, len(cat))
		for opt, set := range cat {
			cc[opt] = cloneModSet(set)
		}
		out.Categories[name] = cc
	}
	for k, v := range d.UIVisibility {
		out.UIVisibility[k] = v
	}
	for k, v := range d.ProfileOverrides {
		out.ProfileOverrides[k] = cloneModSet(v)
	}
	for k, v := range d.Defaults {
		out.Defaults[k] = v
	}
	for cat, opts := range d.Previews {
		m := make(map[string]string, len(opts))
		for opt, path := range opts {
			m[opt] = path
		}
		out.Previews[cat] = m
	}
	for k, v := range d.PluginGroups {
		out.PluginGroups[k] = v
	}
	if d.PluginRules != nil {
		out.PluginRules = make([]types.PlacementRule, len(d.PluginRules))
		for i, r := range d.PluginRules {
			out.PluginRules[i] = types.PlacementRule{
				Match:       r.Match,
				MatchRegex:  r.MatchRegex,
				Before:      append(types.StringList(nil), r.Before...),
				After:       append(types.StringList(nil), r.After...),
				BeforeRegex: append(types.StringList(nil), r.BeforeRegex...),
				AfterRegex:  append(types.StringList(nil), r.AfterRegex...),
			}
		}
	}
	return out
}

func cloneModSet(s types.ModSet) types.ModSet {
	return types.ModSet{
		Enable:  append([]string(nil), s.Enable...),
		Disable: append([]string(nil), s.Disable...),
	}
}
