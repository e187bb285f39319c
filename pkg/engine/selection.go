package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/resolution"
	"github.com/Alaxouche/loadout/pkg/rules"
	"github.com/Alaxouche/loadout/pkg/types"
)

// Selections are the caller's category choices: option labels keyed by
// canonical category name. The resolution entry is a display size
// ("2560x1440") rather than an option label; it is bucketed before lookup.
type Selections map[string]string

// Markers recorded in the summary for categories that contributed nothing.
const (
	// ChoiceHidden marks a category switched off by ui_visibility.
	ChoiceHidden = "(hidden)"

	// ChoiceSuppressed marks a category sidelined because Community
	// Shaders replaces its concern.
	ChoiceSuppressed = "(n/a)"
)

// csSuppressed are the categories that make no sense under Community
// Shaders: the framework brings its own presets and anti-aliasing.
var csSuppressed = map[string]bool{
	rules.CategoryENBPreset:    true,
	rules.CategoryAntiAliasing: true,
	rules.CategoryDLSS:         true,
}

// resolvedSelections is the outcome of folding defaults, caller choices
// and profile overrides into one mod set.
type resolvedSelections struct {
	set     types.ModSet
	choices map[string]string
	resText string
}

// resolveSelections builds the effective mod set for a run. The rule
// document's defaults are overlaid by the caller's selections; categories
// hidden by ui_visibility or suppressed by Community Shaders contribute
// nothing; each chosen option's Enable names join the enable set and leave
// the disable set, and vice versa; the profile's overrides merge after all
// categories, and the caller's extra set merges last of all so explicit
// requests always win.
func resolveSelections(doc *rules.Document, profile string, sel Selections, extra types.ModSet) *resolvedSelections {
	logger := logging.GetLogger("engine")

	effective := make(map[string]string, len(doc.Defaults)+len(sel))
	for name, opt := range doc.Defaults {
		canon, ok := rules.CanonicalCategory(name)
		if !ok {
			logger.Debug().Str("category", name).Msg("Unknown category in defaults, ignoring")
			continue
		}
		effective[canon] = opt
	}
	for name, opt := range sel {
		canon, ok := rules.CanonicalCategory(name)
		if !ok {
			logger.Warn().Str("category", name).Msg("Unknown selection category, ignoring")
			continue
		}
		effective[canon] = opt
	}

	frameworkIsCS := isCommunityShaders(effective[rules.CategoryGraphicsFramework])

	enable := make(map[string]struct{})
	disable := make(map[string]struct{})
	merge := func(set types.ModSet) {
		for _, m := range set.Enable {
			enable[m] = struct{}{}
			delete(disable, m)
		}
		for _, m := range set.Disable {
			disable[m] = struct{}{}
			delete(enable, m)
		}
	}

	out := &resolvedSelections{choices: make(map[string]string)}
	for _, cat := range rules.SelectionCategories() {
		if !doc.Visible(cat) {
			out.choices[cat] = ChoiceHidden
			continue
		}
		if frameworkIsCS && csSuppressed[cat] {
			out.choices[cat] = ChoiceSuppressed
			continue
		}
		opt, ok := effective[cat]
		if !ok || strings.TrimSpace(opt) == "" {
			continue
		}

		if cat == rules.CategoryResolution {
			if _, _, parses := resolution.Parse(opt); parses {
				bucket := resolution.Bucket(opt)
				out.resText = strings.ReplaceAll(strings.TrimSpace(opt), " ", "")
				out.choices[cat] = fmt.Sprintf("%s (bucket: %s)", out.resText, bucket)
				opt = bucket
			} else {
				out.choices[cat] = opt
			}
		} else {
			out.choices[cat] = opt
		}

		set, known := doc.ModSetFor(cat, opt)
		if !known {
			logger.Warn().
				Str("category", cat).
				Str("option", opt).
				Msg("Unknown option for category, skipping")
			continue
		}
		merge(set)
	}

	overrides := doc.OverridesFor(profile)
	merge(overrides)
	merge(extra)

	out.set = types.ModSet{
		Enable:  sortedKeys(enable),
		Disable: sortedKeys(disable),
	}
	return out
}

// isCommunityShaders detects the Community Shaders framework option by its
// label.
func isCommunityShaders(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "community shaders" || strings.HasPrefix(t, "community")
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
