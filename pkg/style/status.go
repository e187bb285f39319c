package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Status classifies one rendered line of a run report.
type Status string

const (
	StatusSuccess Status = "success" // Stage applied changes
	StatusError   Status = "error"   // Stage failed
	StatusNoop    Status = "noop"    // Stage ran, nothing to do
	StatusSkipped Status = "skipped" // Stage did not run
)

// Pipeline stage names as rendered in run reports.
const (
	StageModlist = "modlist"
	StagePlugins = "plugins"
	StageGroups  = "groups"
	StageDisplay = "display"
)

// StageVerbs defines applied and rehearsed verbs for each pipeline stage.
var StageVerbs = map[string]struct {
	Applied   string
	Rehearsed string
}{
	StageModlist: {Applied: "reconciled", Rehearsed: "would reconcile"},
	StagePlugins: {Applied: "merged", Rehearsed: "would merge"},
	StageGroups:  {Applied: "synchronized", Rehearsed: "would synchronize"},
	StageDisplay: {Applied: "written", Rehearsed: "would write"},
}

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusNoop:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// StageStatus is one stage line of a run report.
type StageStatus struct {
	Stage  string // Pipeline stage (modlist, plugins, groups, display)
	Status Status // Outcome classification
	Detail string // Human-readable outcome, already tensed
}

// RunStatus is a whole run laid out for rendering: a profile header plus one
// line per stage.
type RunStatus struct {
	Profile string
	DryRun  bool
	Stages  []StageStatus
}

// RenderStageStatus renders a single stage line
func RenderStageStatus(ss StageStatus) string {
	stageName := fmt.Sprintf("%-8s", ss.Stage)
	styledStage := StatusStyle(ss.Status).Sprint(stageName)
	return fmt.Sprintf("    %s : %s", styledStage, ss.Detail)
}

// RenderRunStatus renders the profile header and its stage lines
func RenderRunStatus(rs RunStatus) string {
	var result strings.Builder

	header := rs.Profile + ":"
	if rs.DryRun {
		header = rs.Profile + " (dry run):"
	}
	if AggregateRunStatus(rs.Stages) == StatusError {
		header = StatusStyle(StatusError).Sprint(header)
	} else {
		header = Bold(header)
	}
	result.WriteString(header + "\n")

	for _, ss := range rs.Stages {
		result.WriteString(RenderStageStatus(ss) + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// AggregateRunStatus determines the overall status of a run based on its stages
func AggregateRunStatus(stages []StageStatus) Status {
	hasError := false
	hasChange := false

	for _, s := range stages {
		switch s.Status {
		case StatusError:
			hasError = true
		case StatusSuccess:
			hasChange = true
		}
	}

	if hasError {
		return StatusError
	} else if hasChange {
		return StatusSuccess
	}

	// Nothing failed, nothing changed
	return StatusNoop
}
