package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns raw topic text into terminal output. ext is the extension
// of the file the topic came from, dot included.
type Renderer interface {
	Render(content, ext string) string
}

// PlainRenderer passes content through untouched.
type PlainRenderer struct{}

func (PlainRenderer) Render(content, _ string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour and passes every
// other format through. Any render failure falls back to the raw text.
type GlamourRenderer struct {
	// Style is a glamour style name or a path to a custom style file.
	// Empty or "auto" probes the terminal background.
	Style string

	// Width wraps the output; 0 keeps glamour's default.
	Width int
}

// NewGlamourRenderer creates a markdown renderer with terminal
// auto-detection.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

func (r *GlamourRenderer) Render(content, ext string) string {
	if ext != ".md" {
		return content
	}

	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.Style != "" && r.Style != "auto" {
		opts = []glamour.TermRendererOption{glamour.WithStylePath(r.Style)}
	}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return out
}
