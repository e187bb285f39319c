package loadout

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Alaxouche/loadout/internal/version"
	"github.com/Alaxouche/loadout/pkg/capability"
	"github.com/Alaxouche/loadout/pkg/cobrax/topics"
	"github.com/Alaxouche/loadout/pkg/config"
	"github.com/Alaxouche/loadout/pkg/engine"
	loaderr "github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/output"
	"github.com/Alaxouche/loadout/pkg/paths"
	"github.com/Alaxouche/loadout/pkg/rules"
	"github.com/Alaxouche/loadout/pkg/style"
	"github.com/Alaxouche/loadout/pkg/types"
	"github.com/Alaxouche/loadout/pkg/watch"
)

// ErrStagesFailed marks a run that completed with stage errors. The summary
// naming the failed stages has already been rendered when a command returns
// it; main only maps it onto the exit code.
var ErrStagesFailed = errors.New("one or more stages failed")

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity int
		root      string
		profile   string
		dryRun    bool
	)

	rootCmd := &cobra.Command{
		Use:     "loadout",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", MsgFlagProfile)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help system
	// Try to find help topics relative to the executable location
	exe, err := os.Executable()
	if err == nil {
		// Look for help topics in various locations
		possiblePaths := []string{
			filepath.Join(filepath.Dir(exe), "topics"),                               // Same directory as binary (production)
			filepath.Join(filepath.Dir(exe), "..", "..", "cmd", "loadout", "topics"), // Development
			"cmd/loadout/topics", // Current directory fallback
		}

		for _, helpPath := range possiblePaths {
			if _, err := os.Stat(helpPath); err == nil {
				// Initialize topics with .txt, .md, and .txxt extensions
				opts := topics.Options{
					Extensions: []string{".txt", ".md", ".txxt"},
					// Always use Glamour renderer for markdown files
					Renderer: topics.NewGlamourRenderer(),
				}

				if err := topics.InitializeWithOptions(rootCmd, helpPath, opts); err == nil {
					break
				}
			}
		}
	}

	return rootCmd
}

// initPaths resolves the instance layout from the --root flag, the
// LOADOUT_ROOT variable, or the upward search from the working directory.
func initPaths(cmd *cobra.Command) (paths.Paths, error) {
	root, _ := cmd.Root().PersistentFlags().GetString("root")
	p, err := paths.New(root)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	return p, nil
}

// initFS picks the filesystem for this invocation. Dry runs get a
// copy-on-write layer over the real disk, so every stage composes for real
// and the instance stays untouched.
func initFS(cmd *cobra.Command) types.FS {
	dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
	if dryRun {
		return filesystem.NewScratch(afero.NewOsFs())
	}
	return filesystem.NewOS()
}

// initEngine wires paths, configuration and the filesystem into an engine.
func initEngine(cmd *cobra.Command) (*engine.Engine, error) {
	p, err := initPaths(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p.Root())
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return engine.New(initFS(cmd), p, cfg), nil
}

// resolveProfile honors the --profile flag before the configured and
// manager-selected fallbacks.
func resolveProfile(cmd *cobra.Command, e *engine.Engine) string {
	requested, _ := cmd.Root().PersistentFlags().GetString("profile")
	return e.ResolveProfile(requested)
}

// newRenderer builds the stdout renderer for a --format value, styling text
// output only when stdout is a color-capable terminal.
func newRenderer(format string) (*output.Renderer, error) {
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(os.Stdout, f, style.Styled(os.Stdout)), nil
}

// RenderError formats an error for stderr, styled when stderr is a
// color-capable terminal. main uses it for every error that is not a
// stage failure.
func RenderError(err error) string {
	if style.Styled(os.Stderr) {
		return style.NewTerminalRenderer().RenderError(err)
	}
	return style.NewPlainRenderer().RenderError(err)
}

// parseSelections splits repeated category=option pairs into a selection
// map. Unknown categories pass through; the engine logs and skips them.
func parseSelections(pairs []string) (engine.Selections, error) {
	sel := engine.Selections{}
	for _, pair := range pairs {
		category, option, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(category) == "" || strings.TrimSpace(option) == "" {
			return nil, loaderr.Newf(loaderr.ErrInvalidInput,
				"selection %q is not of the form category=option", pair).
				WithDetail("selection", pair)
		}
		sel[strings.TrimSpace(category)] = strings.TrimSpace(option)
	}
	return sel, nil
}

// selects reports whether the selections already name the category under
// any of its accepted spellings.
func selects(sel engine.Selections, category string) bool {
	for name := range sel {
		if canon, ok := rules.CanonicalCategory(name); ok && canon == category {
			return true
		}
	}
	return false
}

// evalCapability parses a dxdiag export in the background and reports
// whether the machine clears the configured driver-model threshold. Only
// the verdict crosses the channel; an unreadable or unparseable report
// reads as not capable and is logged.
func evalCapability(e *engine.Engine, path string) <-chan bool {
	ch := make(chan bool, 1)
	go func() {
		defer close(ch)
		logger := logging.GetLogger("capability")
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Cannot read dxdiag export")
			ch <- false
			return
		}
		report, err := capability.ParseReport(data)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Cannot parse dxdiag export")
			ch <- false
			return
		}
		capability.StoreReport(e.FS(), e.Paths().CapabilityCachePath(), report)
		ch <- capability.DLSSCapable(report, e.Config().Capability.MinWDDM)
	}()
	return ch
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringArray("set")
			res, _ := cmd.Flags().GetString("resolution")
			enable, _ := cmd.Flags().GetStringArray("enable")
			disable, _ := cmd.Flags().GetStringArray("disable")
			dxdiag, _ := cmd.Flags().GetString("dxdiag")

			// Get dry-run flag value (it's a persistent flag)
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			e, err := initEngine(cmd)
			if err != nil {
				return err
			}
			profile := resolveProfile(cmd, e)

			sel, err := parseSelections(sets)
			if err != nil {
				return err
			}
			if res != "" {
				sel[rules.CategoryResolution] = res
			}

			// Evaluate the capability report while the rule document loads.
			// An explicit dlss selection always wins over the verdict.
			var verdict <-chan bool
			if dxdiag != "" && !selects(sel, rules.CategoryDLSS) {
				verdict = evalCapability(e, dxdiag)
			}
			e.LoadRules()
			if verdict != nil {
				if <-verdict {
					sel[rules.CategoryDLSS] = "On"
				} else {
					sel[rules.CategoryDLSS] = "Off"
				}
			}

			log.Info().
				Str("profile", profile).
				Bool("dry_run", dryRun).
				Msg("Applying selections")

			sum := e.Run(profile, sel, engine.Options{
				DryRun:  dryRun,
				Enable:  enable,
				Disable: disable,
			})

			r, err := newRenderer("")
			if err != nil {
				return err
			}
			if err := r.RenderSummary(sum); err != nil {
				return err
			}
			if sum.Failed() {
				return ErrStagesFailed
			}
			return nil
		},
	}

	cmd.Flags().StringArray("set", nil, MsgFlagSet)
	cmd.Flags().String("resolution", "", MsgFlagResolution)
	cmd.Flags().StringArray("enable", nil, MsgFlagEnable)
	cmd.Flags().StringArray("disable", nil, MsgFlagDisable)
	cmd.Flags().String("dxdiag", "", MsgFlagDxdiag)

	return cmd
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Example: MsgSyncExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := initEngine(cmd)
			if err != nil {
				return err
			}
			profile := resolveProfile(cmd, e)

			log.Info().Str("profile", profile).Msg("Syncing plugins and groups")

			sum := e.Sync(profile)

			r, err := newRenderer("")
			if err != nil {
				return err
			}
			if err := r.RenderSummary(sum); err != nil {
				return err
			}
			if sum.Failed() {
				return ErrStagesFailed
			}
			return nil
		},
	}
}

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "groups",
		Short:   MsgGroupsShort,
		Long:    MsgGroupsLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := initEngine(cmd)
			if err != nil {
				return err
			}
			profile := resolveProfile(cmd, e)

			log.Info().Str("profile", profile).Msg("Syncing plugin groups")

			res, err := e.SyncGroups(profile, e.LoadRules())
			if err != nil {
				fmt.Fprintln(os.Stderr, RenderError(err))
				return ErrStagesFailed
			}

			r, err := newRenderer("")
			if err != nil {
				return err
			}
			switch {
			case res.Written:
				return r.RenderMessage(fmt.Sprintf(MsgGroupsSyncedFormat, res.Entries, profile))
			case res.Entries > 0:
				return r.RenderMessage(fmt.Sprintf(MsgGroupsUpToDateFormat, profile, res.Entries))
			default:
				return r.RenderMessage(fmt.Sprintf(MsgGroupsNoneFormat, profile))
			}
		},
	}
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			e, err := initEngine(cmd)
			if err != nil {
				return err
			}
			profile := resolveProfile(cmd, e)

			log.Info().Str("profile", profile).Msg("Collecting profile status")

			r, err := newRenderer(format)
			if err != nil {
				return err
			}
			return r.RenderStatus(e.Status(profile))
		},
	}

	cmd.Flags().StringP("format", "f", "text", MsgFlagFormat)

	return cmd
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		Long:    MsgRulesLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no subcommand specified")
		},
	}

	cmd.AddCommand(newRulesShowCmd())
	cmd.AddCommand(newRulesInitCmd())
	cmd.AddCommand(newRulesCheckCmd())

	return cmd
}

func newRulesShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: MsgRulesShowShort,
		Long:  MsgRulesShowLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			e, err := initEngine(cmd)
			if err != nil {
				return err
			}

			r, err := newRenderer(format)
			if err != nil {
				return err
			}
			return r.RenderRules(e.LoadRules())
		},
	}

	cmd.Flags().StringP("format", "f", "text", MsgFlagFormat)

	return cmd
}

func newRulesInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgRulesInitShort,
		Long:  MsgRulesInitLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			p, err := initPaths(cmd)
			if err != nil {
				return err
			}

			if err := rules.Seed(initFS(cmd), p.RulesPath(), force); err != nil {
				return err
			}

			r, err := newRenderer("")
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgRulesWrittenFormat, p.RulesPath()))
		},
	}

	cmd.Flags().Bool("force", false, MsgFlagForce)

	return cmd
}

func newRulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: MsgRulesCheckShort,
		Long:  MsgRulesCheckLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := initPaths(cmd)
			if err != nil {
				return err
			}

			if err := rules.Check(initFS(cmd), p.RulesPath()); err != nil {
				return err
			}

			r, err := newRenderer("")
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgRulesOKFormat, p.RulesPath()))
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := initEngine(cmd)
			if err != nil {
				return err
			}
			profile := resolveProfile(cmd, e)

			r, err := newRenderer("")
			if err != nil {
				return err
			}

			// Stage errors show up in the rendered summary; the watch keeps
			// going either way.
			run := func() error {
				return r.RenderSummary(e.Sync(profile))
			}

			// Initial sync so the state is current before waiting.
			if err := run(); err != nil {
				return err
			}

			w, err := watch.New(watch.Config{
				Files: []string{
					e.Paths().ModlistPath(profile),
					e.Paths().RulesPath(),
				},
				Debounce: e.Config().Watch.Debounce,
			})
			if err != nil {
				return err
			}

			fmt.Printf(MsgWatchingFormat, e.Paths().Root(), profile)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return w.Watch(ctx, run)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf(MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
