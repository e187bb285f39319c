package loadout

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A rule-driven mod list and load order engine"
	MsgApplyShort      = "Apply selections and synchronize the profile"
	MsgSyncShort       = "Merge new plugins and sync group assignments"
	MsgGroupsShort     = "Sync plugin group assignments only"
	MsgStatusShort     = "Show the profile's managed state"
	MsgRulesShort      = "Inspect and manage the rule document"
	MsgRulesShowShort  = "Print the effective rule document"
	MsgRulesInitShort  = "Write the packaged default rule document"
	MsgRulesCheckShort = "Validate the on-disk rule document"
	MsgWatchShort      = "Re-run sync whenever state files change"
	MsgVersionShort    = "Print version information"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgRulesWrittenFormat    = "Rule document written to %s"
	MsgRulesOKFormat         = "Rule document at %s is valid"
	MsgGroupsSyncedFormat    = "Synced %d group assignments for '%s'"
	MsgGroupsUpToDateFormat  = "Group assignments for '%s' already up to date (%d entries)"
	MsgGroupsNoneFormat      = "No group assignments for '%s'"
	MsgWatchingFormat        = "Watching %s (profile '%s') - press Ctrl+C to stop\n"
	MsgVersionFormat         = "loadout %s (commit %s, built %s)\n"

	// Error messages
	MsgErrInitPaths  = "failed to resolve instance root: %w"
	MsgErrLoadConfig = "failed to load configuration: %w"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Compose everything but write nothing"
	MsgFlagRoot       = "Instance root (default: $LOADOUT_ROOT or upward search)"
	MsgFlagProfile    = "Profile to operate on (default: configured or manager-selected)"
	MsgFlagFormat     = "Output format (text, json, yaml)"
	MsgFlagSet        = "Select an option for a category (category=option, repeatable)"
	MsgFlagResolution = "Display size to apply, e.g. 2560x1440"
	MsgFlagEnable     = "Enable a mod regardless of rules (repeatable)"
	MsgFlagDisable    = "Disable a mod regardless of rules (repeatable)"
	MsgFlagDxdiag     = "dxdiag XML export used to auto-pick the dlss option"
	MsgFlagForce      = "Replace an existing rule document"
)

// Long messages
const (
	MsgRootLong = `loadout keeps a mod manager profile's four state files consistent:
modlist.txt, loadorder.txt, plugins.txt and plugingroups.txt.

A rule document at the instance root maps user-facing selections
(resolution, difficulty, graphics framework, ...) to sets of mods to
enable or disable. Applying selections reconciles the mod list, merges
newly appearing plugins into the load order at rule-anchored positions,
activates them, and folds group assignments in - all without disturbing
entries the user placed by hand.

Every file is re-read before it is mutated and only written when its
content actually changes, so runs are idempotent and safe to repeat.`

	MsgApplyLong = `Apply runs the full pipeline for a profile: selections resolve through
the rule document into mod sets, the mod list is reconciled, new plugins
from the enabled mods are merged into the load order and activated,
plugin groups sync, and - when a resolution was selected - the display
INI is written to the overwrite directory.

Each --set pair picks an option for one category; unset categories fall
back to the document's defaults. --enable and --disable merge after all
rule contributions, so they always win. A stage failure is recorded in
the summary and later stages still run.`

	MsgApplyExample = `  # Apply the rule document defaults
  loadout apply

  # Pick options and a display size
  loadout apply --set difficulty=Hard --set dlss=On --resolution 2560x1440

  # Force mods on or off regardless of rules
  loadout apply --enable "Lore Weapons" --disable "Cheat Room"

  # Let a dxdiag report decide the dlss option
  loadout apply --dxdiag DxDiag.xml

  # Rehearse without writing anything
  loadout apply --dry-run --set difficulty=Hard`

	MsgSyncLong = `Sync merges plugins that appeared since the last run - from mods already
enabled in the profile's mod list - into the load order, activates them,
and folds the rule document's group assignments in. The mod list itself
is left untouched.`

	MsgSyncExample = `  # Sync the selected profile
  loadout sync

  # Sync a specific profile
  loadout sync --profile Hardcore`

	MsgGroupsLong = `Groups folds the rule document's plugin_groups mapping into the
profile's plugingroups.txt, keeping the file's header and any manually
added lines. Entries for plugins in the current load order come first in
load-order sequence; the rest append alphabetically.`

	MsgStatusLong = `Status reports the profile's managed state: how many mods are enabled,
how many plugins the load order holds and how many are active, the group
assignment count, and the selectable categories with their options and
defaults.`

	MsgStatusExample = `  # Human-readable snapshot
  loadout status

  # Machine-readable snapshot
  loadout status --format json`

	MsgRulesLong = `The rule document at the instance root drives every pipeline stage. The
subcommands print the effective merged document, seed a fresh one from
the packaged defaults, and validate a hand-edited one.`

	MsgRulesShowLong = `Show prints the effective rule document: the packaged defaults overlaid
with the instance's file, after lenient parsing and category
canonicalization. This is exactly what apply works from.`

	MsgRulesInitLong = `Init writes the packaged default rule document to the instance root so
there is a concrete file to edit. An existing document is only replaced
with --force.`

	MsgRulesCheckLong = `Check validates the on-disk rule document against the same gate the
engine applies on load: it must parse (comments and trailing commas are
tolerated) and carry a resolution section. A document failing the gate
is ignored at run time in favor of the packaged defaults; check reports
why.`

	MsgWatchLong = `Watch re-runs sync whenever the profile's mod list or the rule document
changes, after a short quiet period so editor save bursts coalesce into
one run. An initial sync runs immediately.`

	MsgCompletionLong = `Generate a shell completion script for loadout.

To load completions in your current bash session:
  source <(loadout completion bash)

To load completions for every zsh session, run once:
  loadout completion zsh > "${fpath[1]}/_loadout"`
)

// MsgUsageTemplate is the root usage template; section headers go through
// the formatting template funcs so they render bold on terminals.
const MsgUsageTemplate = `{{boldUpper "Usage:"}}{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "Available commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{boldUpper "Additional commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

{{boldUpper "Additional help topics:"}}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}`
