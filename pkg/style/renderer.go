package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/Alaxouche/loadout/pkg/engine"
	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/rules"
)

// Renderer defines the interface for rendering engine reports
type Renderer interface {
	RenderSummary(sum *engine.Summary) string
	RenderStatus(st *engine.Status) string
	RenderError(err error) string
}

// stageLabels maps rendered stage names to the labels the engine records in
// Summary.Errors entries.
var stageLabels = map[string]string{
	StageModlist: "apply mod sets",
	StagePlugins: "sync plugins",
	StageGroups:  "sync plugin groups",
	StageDisplay: "write display ini",
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderSummary renders a full pipeline run: the profile header, one line
// per stage, the effective choices, and any stage errors.
func (r *TerminalRenderer) RenderSummary(sum *engine.Summary) string {
	var result strings.Builder

	rs := RunStatus{
		Profile: sum.Profile,
		DryRun:  sum.DryRun,
		Stages:  summaryStages(sum),
	}
	result.WriteString(RenderRunStatus(rs))

	if choices := renderChoices(sum.Choices); len(choices) > 0 {
		result.WriteString("\n\n" + SubtitleStyle.Render("Choices") + "\n")
		for _, line := range choices {
			result.WriteString("    " + MutedStyle.Render(line) + "\n")
		}
	}

	if len(sum.Errors) > 0 {
		result.WriteString("\n" + SubtitleStyle.Render("Errors") + "\n")
		for _, e := range sum.Errors {
			result.WriteString(fmt.Sprintf("    %s %s\n", ErrorIndicator, e))
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderStatus renders a profile snapshot: counts per state file plus the
// selectable categories.
func (r *TerminalRenderer) RenderStatus(st *engine.Status) string {
	var result strings.Builder

	header := fmt.Sprintf("%s %s", Bold(st.Profile), MutedStyle.Render("@ "+st.Root))
	result.WriteString(header + "\n")
	result.WriteString(fmt.Sprintf("    %-8s : %d of %d enabled\n", "mods", st.ModsEnabled, st.ModsTotal))
	result.WriteString(fmt.Sprintf("    %-8s : %d in load order, %d active\n", "plugins", st.Plugins, st.PluginsActive))
	result.WriteString(fmt.Sprintf("    %-8s : %d assignments\n", "groups", st.Groups))

	var cats []string
	for _, cat := range st.Categories {
		if len(cat.Options) == 0 {
			continue
		}
		line := fmt.Sprintf("%-18s : %s", cat.Name, strings.Join(cat.Options, ", "))
		if cat.Default != "" {
			line += fmt.Sprintf(" (default: %s)", cat.Default)
		}
		if !cat.Visible {
			line += " (hidden)"
		}
		cats = append(cats, line)
	}
	if len(cats) > 0 {
		result.WriteString("\n" + SubtitleStyle.Render("Categories") + "\n")
		for _, line := range cats {
			result.WriteString("    " + line + "\n")
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(string(code)),
			err.Error())
	}

	// Generic error
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// summaryStages reduces a run summary to one status line per stage.
func summaryStages(sum *engine.Summary) []StageStatus {
	var stages []StageStatus

	verb := func(stage string) string {
		v := StageVerbs[stage]
		if sum.DryRun {
			return v.Rehearsed
		}
		return v.Applied
	}

	if detail, failed := stageError(sum, StageModlist); failed {
		stages = append(stages, StageStatus{StageModlist, StatusError, detail})
	} else if m := sum.Mods; m != nil {
		if m.Changed {
			detail := fmt.Sprintf("%s %d enabled, %d disabled", verb(StageModlist), m.Enabled, m.Disabled)
			if len(m.Unknown) > 0 {
				detail += fmt.Sprintf(" (%d unknown)", len(m.Unknown))
			}
			stages = append(stages, StageStatus{StageModlist, StatusSuccess, detail})
		} else {
			stages = append(stages, StageStatus{StageModlist, StatusNoop, "already up to date"})
		}
	}

	if p := sum.Plugins; p != nil {
		switch {
		case len(p.Errors) > 0:
			detail := fmt.Sprintf("%d of %d placed, %d errors", len(p.Inserted), p.Discovered, len(p.Errors))
			stages = append(stages, StageStatus{StagePlugins, StatusError, detail})
		case len(p.Inserted) > 0:
			detail := fmt.Sprintf("%s %d new, %d activated", verb(StagePlugins), len(p.Inserted), p.Activated)
			stages = append(stages, StageStatus{StagePlugins, StatusSuccess, detail})
		default:
			stages = append(stages, StageStatus{StagePlugins, StatusNoop, "no new plugins"})
		}
	}

	if detail, failed := stageError(sum, StageGroups); failed {
		stages = append(stages, StageStatus{StageGroups, StatusError, detail})
	} else if g := sum.Groups; g != nil {
		switch {
		case g.Written:
			detail := fmt.Sprintf("%s %d assignments", verb(StageGroups), g.Entries)
			stages = append(stages, StageStatus{StageGroups, StatusSuccess, detail})
		case g.Entries > 0:
			stages = append(stages, StageStatus{StageGroups, StatusNoop, "already up to date"})
		default:
			stages = append(stages, StageStatus{StageGroups, StatusNoop, "no assignments"})
		}
	}

	if detail, failed := stageError(sum, StageDisplay); failed {
		stages = append(stages, StageStatus{StageDisplay, StatusError, detail})
	} else if sum.DisplayINI != "" {
		detail := fmt.Sprintf("%s %s", verb(StageDisplay), sum.DisplayINI)
		stages = append(stages, StageStatus{StageDisplay, StatusSuccess, detail})
	} else {
		stages = append(stages, StageStatus{StageDisplay, StatusSkipped, "no display size selected"})
	}

	return stages
}

// stageError finds the stage's entry in the summary's error list.
func stageError(sum *engine.Summary, stage string) (string, bool) {
	prefix := stageLabels[stage] + ":"
	for _, e := range sum.Errors {
		if strings.HasPrefix(e, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(e, prefix)), true
		}
	}
	return "", false
}

// renderChoices lays out the effective choices in category merge order.
func renderChoices(choices map[string]string) []string {
	var lines []string
	for _, cat := range rules.SelectionCategories() {
		opt, ok := choices[cat]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-18s = %s", cat, opt))
	}
	return lines
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderSummary renders a plain run report
func (r *PlainRenderer) RenderSummary(sum *engine.Summary) string {
	var result strings.Builder

	header := sum.Profile + ":"
	if sum.DryRun {
		header = sum.Profile + " (dry run):"
	}
	result.WriteString(header + "\n")

	for _, ss := range summaryStages(sum) {
		result.WriteString(fmt.Sprintf("    %-8s : %s\n", ss.Stage, ss.Detail))
	}

	for _, line := range renderChoices(sum.Choices) {
		result.WriteString("    " + line + "\n")
	}

	for _, e := range sum.Errors {
		result.WriteString("    error: " + e + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderStatus renders a plain profile snapshot
func (r *PlainRenderer) RenderStatus(st *engine.Status) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s @ %s\n", st.Profile, st.Root))
	result.WriteString(fmt.Sprintf("    mods     : %d of %d enabled\n", st.ModsEnabled, st.ModsTotal))
	result.WriteString(fmt.Sprintf("    plugins  : %d in load order, %d active\n", st.Plugins, st.PluginsActive))
	result.WriteString(fmt.Sprintf("    groups   : %d assignments\n", st.Groups))

	return strings.TrimRight(result.String(), "\n")
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("Error [%s]: %s", string(code), err.Error())
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
