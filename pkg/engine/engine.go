package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alaxouche/loadout/pkg/config"
	"github.com/Alaxouche/loadout/pkg/display"
	"github.com/Alaxouche/loadout/pkg/groups"
	"github.com/Alaxouche/loadout/pkg/loadorder"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/manager"
	"github.com/Alaxouche/loadout/pkg/modlist"
	"github.com/Alaxouche/loadout/pkg/paths"
	"github.com/Alaxouche/loadout/pkg/rules"
	"github.com/Alaxouche/loadout/pkg/types"
)

// Engine binds the pieces of one managed instance: a filesystem, its path
// layout, the rule store and the tool configuration. Stage methods are
// independent; Run chains them in the fixed pipeline order.
type Engine struct {
	fs    types.FS
	paths paths.Paths
	store *rules.Store
	cfg   *config.Config
}

// Options tune one Run.
type Options struct {
	// DryRun marks the summary as a rehearsal. Callers route writes into
	// a scratch layer by handing New a copy-on-write filesystem.
	DryRun bool

	// Enable and Disable are caller-supplied mods merged after every rule
	// contribution, including profile overrides, so explicit requests
	// always win.
	Enable  []string
	Disable []string
}

// New builds an engine over an instance. A nil cfg falls back to the
// packaged defaults.
func New(fsys types.FS, pather paths.Paths, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		fs:    fsys,
		paths: pather,
		store: rules.NewStore(fsys, pather.RulesPath()),
		cfg:   cfg,
	}
}

// Paths exposes the instance layout the engine operates on.
func (e *Engine) Paths() paths.Paths {
	return e.paths
}

// Config exposes the tool configuration the engine runs with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// FS exposes the filesystem the engine writes through. Shells route cache
// files through it so dry runs stay contained in the scratch layer.
func (e *Engine) FS() types.FS {
	return e.fs
}

// LoadRules returns the instance's rule document, seeded and cached by the
// store.
func (e *Engine) LoadRules() *rules.Document {
	return e.store.Load()
}

// ResolveProfile picks the profile to operate on: the explicit name when
// given, the configured one otherwise, and the host manager's selection as
// the final fallback.
func (e *Engine) ResolveProfile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if e.cfg.Core.Profile != "" {
		return e.cfg.Core.Profile
	}
	return manager.SelectedProfile(e.fs, e.paths.ManagerINIPath())
}

// ApplyModSets reconciles the profile's modlist with a mod set.
func (e *Engine) ApplyModSets(profile string, set types.ModSet) (*modlist.Result, error) {
	return modlist.Apply(e.fs, e.paths, profile, set)
}

// SyncNewPlugins merges newly discovered plugins from the given mods into
// the profile's load order and activates them.
func (e *Engine) SyncNewPlugins(profile string, enabledMods []string, placement []types.PlacementRule) *loadorder.Result {
	return loadorder.Sync(e.fs, e.paths, profile, enabledMods, placement, e.cfg.Discovery.DataDirs)
}

// SyncGroups folds the rule document's group assignments into the
// profile's plugingroups.txt.
func (e *Engine) SyncGroups(profile string, doc *rules.Document) (*groups.Result, error) {
	return groups.Sync(e.fs,
		e.paths.PluginGroupsPath(profile),
		e.paths.LoadOrderPath(profile),
		doc.PluginGroups)
}

// ApplyDisplayINI writes the display INI for a resolution into the
// overwrite directory, basing it on the profile's currently enabled mods.
func (e *Engine) ApplyDisplayINI(profile, res string) (string, error) {
	enabled := modlist.EnabledMods(e.fs, e.paths.ModlistPath(profile))
	return display.Apply(e.fs, e.paths, enabled, e.cfg.Display.INIRelPath, res)
}

// EnabledMods returns the profile's currently enabled mods in modlist
// order.
func (e *Engine) EnabledMods(profile string) []string {
	return modlist.EnabledMods(e.fs, e.paths.ModlistPath(profile))
}

// Run executes the full pipeline for a profile: selections resolve to mod
// sets, the modlist is reconciled, new plugins are merged and activated,
// plugin groups sync, and the display INI is written. Every stage is
// individually recovered, so one failure never stops the later stages.
func (e *Engine) Run(profile string, sel Selections, opts Options) *Summary {
	logger := logging.GetLogger("engine")
	start := time.Now()

	summary := &Summary{
		RunID:   uuid.New().String(),
		Profile: profile,
		DryRun:  opts.DryRun,
	}
	logger.Info().
		Str("run_id", summary.RunID).
		Str("profile", profile).
		Bool("dry_run", opts.DryRun).
		Msg("Pipeline run starting")

	doc := e.LoadRules()
	resolved := resolveSelections(doc, profile, sel, types.ModSet{
		Enable:  opts.Enable,
		Disable: opts.Disable,
	})
	summary.Choices = resolved.choices

	if res, err := e.ApplyModSets(profile, resolved.set); err != nil {
		summary.fail("apply mod sets", err, logger)
	} else {
		summary.Mods = res
	}

	summary.Plugins = e.SyncNewPlugins(profile, resolved.set.Enable, doc.PluginRules)

	if res, err := e.SyncGroups(profile, doc); err != nil {
		summary.fail("sync plugin groups", err, logger)
	} else {
		summary.Groups = res
	}

	if resolved.resText != "" {
		if path, err := e.ApplyDisplayINI(profile, resolved.resText); err != nil {
			summary.fail("write display ini", err, logger)
		} else {
			summary.DisplayINI = path
		}
	}

	summary.Duration = time.Since(start)
	logger.Info().
		Str("run_id", summary.RunID).
		Dur("duration", summary.Duration).
		Int("stage_errors", len(summary.Errors)).
		Msg("Pipeline run finished")
	return summary
}

// Sync runs the plugin and group stages for the profile's currently
// enabled mods, leaving the modlist as it stands. Watch mode and the sync
// shell command use it when no selection changes.
func (e *Engine) Sync(profile string) *Summary {
	logger := logging.GetLogger("engine")
	start := time.Now()

	summary := &Summary{
		RunID:   uuid.New().String(),
		Profile: profile,
	}
	logger.Info().
		Str("run_id", summary.RunID).
		Str("profile", profile).
		Msg("Sync run starting")

	doc := e.LoadRules()
	summary.Plugins = e.SyncNewPlugins(profile, e.EnabledMods(profile), doc.PluginRules)

	if res, err := e.SyncGroups(profile, doc); err != nil {
		summary.fail("sync plugin groups", err, logger)
	} else {
		summary.Groups = res
	}

	summary.Duration = time.Since(start)
	logger.Info().
		Str("run_id", summary.RunID).
		Dur("duration", summary.Duration).
		Int("stage_errors", len(summary.Errors)).
		Msg("Sync run finished")
	return summary
}

func (s *Summary) fail(stage string, err error, logger zerolog.Logger) {
	logger.Error().Err(err).Str("stage", stage).Msg("Stage failed, continuing")
	s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", stage, err))
}
