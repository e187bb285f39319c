package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Alaxouche/loadout/pkg/engine"
	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/rules"
	"github.com/Alaxouche/loadout/pkg/style"
)

// Renderer writes engine reports to one writer in one format. Text output
// goes through the style renderers; json and yaml encode the report structs
// directly.
type Renderer struct {
	w      io.Writer
	format Format
	term   style.Renderer
}

// NewRenderer creates a renderer. styled picks the rich terminal renderer
// for text output; machine formats ignore it.
func NewRenderer(w io.Writer, format Format, styled bool) *Renderer {
	var term style.Renderer = style.NewPlainRenderer()
	if styled {
		term = style.NewTerminalRenderer()
	}
	return &Renderer{w: w, format: format, term: term}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// RenderSummary writes one pipeline run report.
func (r *Renderer) RenderSummary(sum *engine.Summary) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(sum)
	case FormatYAML:
		return r.writeYAML(sum)
	default:
		return r.writeLine(r.term.RenderSummary(sum))
	}
}

// RenderStatus writes one profile snapshot.
func (r *Renderer) RenderStatus(st *engine.Status) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(st)
	case FormatYAML:
		return r.writeYAML(st)
	default:
		return r.writeLine(r.term.RenderStatus(st))
	}
}

// RenderRules writes the effective rule document. The document is data, so
// the text format prints the same indented JSON machine callers get.
func (r *Renderer) RenderRules(doc *rules.Document) error {
	if r.format == FormatYAML {
		return r.writeYAML(doc)
	}
	return r.writeJSON(doc)
}

// errorReport is the machine-format envelope for errors.
type errorReport struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details,omitempty"`
	} `json:"error"`
}

// RenderError writes an error report. A nil error writes nothing.
func (r *Renderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	switch r.format {
	case FormatJSON, FormatYAML:
		var report errorReport
		report.Error.Code = string(errors.GetErrorCode(err))
		report.Error.Message = err.Error()
		report.Error.Details = errors.GetErrorDetails(err)
		if r.format == FormatYAML {
			return r.writeYAML(report)
		}
		return r.writeJSON(report)
	default:
		return r.writeLine(r.term.RenderError(err))
	}
}

// RenderMessage writes a plain line, wrapped as {"message": ...} in machine
// formats.
func (r *Renderer) RenderMessage(msg string) error {
	switch r.format {
	case FormatJSON, FormatYAML:
		payload := map[string]string{"message": msg}
		if r.format == FormatYAML {
			return r.writeYAML(payload)
		}
		return r.writeJSON(payload)
	default:
		return r.writeLine(msg)
	}
}

func (r *Renderer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML round-trips through JSON so the yaml encoder sees the json field
// names instead of the Go ones.
func (r *Renderer) writeYAML(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var plain interface{}
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(plain)
}

func (r *Renderer) writeLine(s string) error {
	if s == "" {
		return nil
	}
	_, err := fmt.Fprintln(r.w, s)
	return err
}
