package loadorder

import (
	"strings"

	"github.com/Alaxouche/loadout/pkg/activation"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/plugins"
	"github.com/Alaxouche/loadout/pkg/types"
)

// Placement records where one plugin was spliced into the order.
type Placement struct {
	Plugin   string   `json:"plugin"`
	Anchor   string   `json:"anchor,omitempty"`
	Position Position `json:"position"`
}

// Result reports what one sync pass did.
type Result struct {
	Discovered int         `json:"discovered"`
	Inserted   []Placement `json:"inserted,omitempty"`
	Activated  int         `json:"activated"`
	Errors     []string    `json:"errors,omitempty"`
}

// Sync brings a profile's load order up to date with its enabled mods.
//
// Plugins are discovered across all enabled mod directories; every plugin
// not yet present in loadorder.txt (case-insensitive) is spliced in one at
// a time, in case-insensitive name order. The order file is re-read before
// each insertion, so edits made between steps by another process are
// respected. Each inserted plugin is activated in plugins.txt immediately,
// and the pass finishes by batch-activating the final order. A failure on
// one plugin is recorded and the pass continues with the next.
func Sync(fsys types.FS, pather types.Pather, profile string, enabledMods []string, rules []types.PlacementRule, dataDirs []string) *Result {
	logger := logging.GetLogger("loadorder.sync")
	result := &Result{}

	discovered := plugins.DiscoverAll(fsys, pather.ModsDir(), enabledMods, dataDirs)
	result.Discovered = len(discovered)

	loPath := pather.LoadOrderPath(profile)
	actPath := pather.PluginsPath(profile)

	existing := make(map[string]struct{})
	for _, name := range Read(fsys, loPath) {
		existing[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	var newPlugins []string
	for _, plugin := range discovered {
		if _, ok := existing[strings.ToLower(strings.TrimSpace(plugin))]; !ok {
			newPlugins = append(newPlugins, plugin)
		}
	}
	logger.Info().
		Int("count", len(newPlugins)).
		Str("profile", profile).
		Msg("New plugins to place")

	for _, plugin := range newPlugins {
		placement, err := placeOne(fsys, loPath, plugin, rules)
		if err != nil {
			logger.Error().Err(err).Str("plugin", plugin).Msg("Placement failed, continuing")
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Inserted = append(result.Inserted, placement)

		if err := activation.EnsureActive(fsys, actPath, plugin); err != nil {
			logger.Error().Err(err).Str("plugin", plugin).Msg("Auto-activation failed")
			result.Errors = append(result.Errors, err.Error())
		}
	}

	final := Read(fsys, loPath)
	activated, err := activation.EnsureAllActive(fsys, actPath, final)
	if err != nil {
		logger.Error().Err(err).Msg("Batch activation failed")
		result.Errors = append(result.Errors, err.Error())
	}
	result.Activated = activated

	logger.Info().
		Int("total", len(final)).
		Str("profile", profile).
		Msg("Load order up to date")
	return result
}

// placeOne re-reads the order, resolves the plugin's rule, splices it in
// and writes the file back.
func placeOne(fsys types.FS, loPath, plugin string, rules []types.PlacementRule) (Placement, error) {
	order := Read(fsys, loPath)

	rule := MatchRule(plugin, rules)
	anchor, pos := ResolveAnchors(rule, order)

	newOrder := Insert(order, plugin, anchor, pos)
	if err := Write(fsys, loPath, newOrder); err != nil {
		return Placement{}, err
	}

	described := anchor
	if described == "" {
		described = "(end)"
	}
	logger := logging.GetLogger("loadorder.sync")
	logger.Info().
		Str("plugin", plugin).
		Str("position", string(pos)).
		Str("anchor", described).
		Int("size", len(newOrder)).
		Msg("Inserted plugin")

	return Placement{Plugin: plugin, Anchor: anchor, Position: pos}, nil
}
