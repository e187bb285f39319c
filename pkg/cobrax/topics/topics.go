// Package topics extends cobra's help system with file-backed topics: every
// .txt or .md file under a directory becomes `<app> help <name>`, and
// `<app> help topics` lists what is available. A file named option-<flag>
// additionally answers `help --<flag>` lookups.
package topics

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help page loaded from disk.
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Options tunes which files become topics and how they render.
type Options struct {
	// Extensions lists the file extensions treated as topics. Empty means
	// .txt and .md.
	Extensions []string

	// Renderer formats topic content for the terminal. Nil passes content
	// through untouched.
	Renderer Renderer
}

// Manager holds the loaded topics of one application and hooks them into
// its help command.
type Manager struct {
	dir        string
	extensions []string
	renderer   Renderer
	topics     map[string]*Topic
	fallback   func(*cobra.Command, []string)
}

// New creates a manager over a topics directory.
func New(dir string, opts Options) *Manager {
	m := &Manager{
		dir:        dir,
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
		topics:     make(map[string]*Topic),
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = PlainRenderer{}
	}
	return m
}

// scan loads every topic file under the directory, subdirectories included.
// Names are the bare filenames, so two files with the same name in
// different subdirectories collapse onto one topic. A missing directory is
// not an error, just an application without extra topics.
func (m *Manager) scan() error {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil
	}

	return filepath.Walk(m.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		if !m.supported(ext) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), ext)
		m.topics[name] = &Topic{Name: name, Path: path, Content: string(content)}
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Topic resolves a name to a loaded topic. Flag spellings are accepted:
// `--dry-run` finds a `dry-run` topic, or an `option-dry-run` file.
func (m *Manager) Topic(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if t, ok := m.topics[name]; ok {
		return t, true
	}
	t, ok := m.topics["option-"+name]
	return t, ok
}

// Names returns the loaded topic names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// render formats one topic through the configured renderer. The extension
// of the backing file picks the treatment.
func (m *Manager) render(t *Topic) string {
	return m.renderer.Render(t.Content, filepath.Ext(t.Path))
}

// listText lays out the `help topics` page. Topics backed by option-*
// files show under their flag spelling.
func (m *Manager) listText(app string) string {
	names := m.Names()
	if len(names) == 0 {
		return "No help topics available.\n"
	}

	var general, options []string
	for _, name := range names {
		if flag, ok := strings.CutPrefix(name, "option-"); ok {
			options = append(options, "--"+flag)
		} else {
			general = append(general, name)
		}
	}

	var b strings.Builder
	b.WriteString("Available help topics:\n")
	if len(general) > 0 {
		b.WriteString("\nGeneral topics:\n")
		for _, name := range general {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		b.WriteString("\nOption topics:\n")
		for _, name := range options {
			fmt.Fprintf(&b, "  %s\n", name)
		}
	}
	fmt.Fprintf(&b, "\nUse '%s help <topic>' to read about a specific topic.\n", app)
	return b.String()
}

// Initialize hooks a topics directory into rootCmd with default options.
func Initialize(rootCmd *cobra.Command, dir string) error {
	return InitializeWithOptions(rootCmd, dir, Options{})
}

// InitializeWithOptions loads the topics and replaces rootCmd's help
// command and help function with topic-aware versions. Names that match no
// topic still fall through to cobra's command help.
func InitializeWithOptions(rootCmd *cobra.Command, dir string, opts Options) error {
	m := New(dir, opts)
	if err := m.scan(); err != nil {
		return fmt.Errorf("failed to scan topics: %w", err)
	}

	m.fallback = rootCmd.HelpFunc()
	m.install(rootCmd)
	return nil
}

// install wires the manager's help command in place of the stock one and
// teaches the --help path about topics.
func (m *Manager) install(rootCmd *cobra.Command) {
	app := rootCmd.Name()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: fmt.Sprintf(`Help provides help for any command or topic in the application.
Simply type %s help [path to command or topic] for full details.

To see all available help topics:
  %s help topics`, app, app),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				m.fallback(rootCmd, []string{})
			case args[0] == "topics":
				fmt.Print(m.listText(app))
			default:
				if t, ok := m.Topic(args[0]); ok {
					fmt.Print(m.render(t))
					return
				}
				// The stock help function renders the command it is
				// handed, so resolve the name before falling back.
				if target, _, err := rootCmd.Find(args); err == nil && target != nil {
					m.fallback(target, args)
					return
				}
				m.fallback(rootCmd, args)
			}
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if t, ok := m.Topic(args[0]); ok {
				fmt.Print(m.render(t))
				return
			}
		}
		m.fallback(cmd, args)
	})
}
