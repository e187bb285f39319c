package engine

import (
	"time"

	"github.com/Alaxouche/loadout/pkg/groups"
	"github.com/Alaxouche/loadout/pkg/loadorder"
	"github.com/Alaxouche/loadout/pkg/modlist"
)

// Summary reports one pipeline run for shells to render.
type Summary struct {
	// RunID correlates the summary with log lines.
	RunID string `json:"run_id"`

	// Profile is the profile the run operated on.
	Profile string `json:"profile"`

	// DryRun marks a rehearsal whose writes went to a scratch layer.
	DryRun bool `json:"dry_run,omitempty"`

	// Choices records the option applied per category, or a marker for
	// hidden and suppressed categories.
	Choices map[string]string `json:"choices,omitempty"`

	// Mods is the modlist reconciliation outcome, nil when the stage
	// failed.
	Mods *modlist.Result `json:"mods,omitempty"`

	// Plugins is the load-order sync outcome.
	Plugins *loadorder.Result `json:"plugins,omitempty"`

	// Groups is the plugin-group sync outcome, nil when the stage failed.
	Groups *groups.Result `json:"groups,omitempty"`

	// DisplayINI is the written INI path, empty when the stage was
	// skipped or failed.
	DisplayINI string `json:"display_ini,omitempty"`

	// Errors holds one entry per failed stage.
	Errors []string `json:"errors,omitempty"`

	// Duration is the wall time of the whole run.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether any stage recorded an error.
func (s *Summary) Failed() bool {
	return len(s.Errors) > 0
}
