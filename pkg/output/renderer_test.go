// Test Type: Unit Test
// Description: Tests for format parsing and the three report encodings

package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Alaxouche/loadout/pkg/engine"
	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/modlist"
	"github.com/Alaxouche/loadout/pkg/output"
	"github.com/Alaxouche/loadout/pkg/rules"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected output.Format
		wantErr  bool
	}{
		{name: "empty_means_text", input: "", expected: output.FormatText},
		{name: "text", input: "text", expected: output.FormatText},
		{name: "json", input: "json", expected: output.FormatJSON},
		{name: "yaml", input: "yaml", expected: output.FormatYAML},
		{name: "yml_alias", input: "yml", expected: output.FormatYAML},
		{name: "case_insensitive", input: "JSON", expected: output.FormatJSON},
		{name: "padded", input: "  yaml ", expected: output.FormatYAML},
		{name: "unknown_rejected", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := output.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func sampleSummary() *engine.Summary {
	return &engine.Summary{
		RunID:   "run-1",
		Profile: "Default",
		Choices: map[string]string{"dlss": "On"},
		Mods:    &modlist.Result{Enabled: 2, Disabled: 1, Changed: true},
	}
}

func TestRenderSummary(t *testing.T) {
	t.Run("json_round_trips", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatJSON, false)
		require.NoError(t, r.RenderSummary(sampleSummary()))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "run-1", decoded["run_id"])
		assert.Equal(t, "Default", decoded["profile"])
		mods, ok := decoded["mods"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(2), mods["enabled"])
	})

	t.Run("yaml_uses_json_field_names", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatYAML, false)
		require.NoError(t, r.RenderSummary(sampleSummary()))

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "run-1", decoded["run_id"])
		mods, ok := decoded["mods"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 2, mods["enabled"])
	})

	t.Run("text_renders_stage_lines", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatText, false)
		require.NoError(t, r.RenderSummary(sampleSummary()))

		assert.Contains(t, buf.String(), "Default:")
		assert.Contains(t, buf.String(), "reconciled 2 enabled, 1 disabled")
	})
}

func TestRenderStatus(t *testing.T) {
	st := &engine.Status{
		Root:        "/instance",
		Profile:     "Default",
		ModsEnabled: 3,
		ModsTotal:   7,
	}

	t.Run("json_carries_counts", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatJSON, false)
		require.NoError(t, r.RenderStatus(st))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, float64(3), decoded["mods_enabled"])
		assert.Equal(t, float64(7), decoded["mods_total"])
	})

	t.Run("text_renders_counts", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatText, false)
		require.NoError(t, r.RenderStatus(st))

		assert.Contains(t, buf.String(), "3 of 7 enabled")
	})
}

func TestRenderError(t *testing.T) {
	t.Run("json_envelope_carries_code_and_details", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatJSON, false)
		err := errors.New(errors.ErrInvalidInput, "bad selection").WithDetail("category", "dlss")
		require.NoError(t, r.RenderError(err))

		var decoded struct {
			Error struct {
				Code    string                 `json:"code"`
				Message string                 `json:"message"`
				Details map[string]interface{} `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "INVALID_INPUT", decoded.Error.Code)
		assert.Contains(t, decoded.Error.Message, "bad selection")
		assert.Equal(t, "dlss", decoded.Error.Details["category"])
	})

	t.Run("nil_error_writes_nothing", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatJSON, false)
		require.NoError(t, r.RenderError(nil))
		assert.Empty(t, buf.String())
	})

	t.Run("text_renders_code", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatText, false)
		require.NoError(t, r.RenderError(errors.New(errors.ErrNoRoot, "no instance root")))

		assert.Contains(t, buf.String(), "NO_ROOT")
		assert.Contains(t, buf.String(), "no instance root")
	})
}

func TestRenderMessage(t *testing.T) {
	t.Run("json_wraps_message", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatJSON, false)
		require.NoError(t, r.RenderMessage("rules written"))

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "rules written", decoded["message"])
	})

	t.Run("text_writes_line", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatText, false)
		require.NoError(t, r.RenderMessage("rules written"))
		assert.Equal(t, "rules written\n", buf.String())
	})
}

func TestRenderRules(t *testing.T) {
	doc := rules.Defaults()

	t.Run("json_document", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatJSON, false)
		require.NoError(t, r.RenderRules(doc))

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Contains(t, decoded, "categories")
		assert.Contains(t, decoded, "ui_visibility")
	})

	t.Run("yaml_document", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatYAML, false)
		require.NoError(t, r.RenderRules(doc))

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Contains(t, decoded, "categories")
	})

	t.Run("text_prints_indented_json", func(t *testing.T) {
		var buf bytes.Buffer
		r := output.NewRenderer(&buf, output.FormatText, false)
		require.NoError(t, r.RenderRules(doc))

		assert.True(t, json.Valid(buf.Bytes()))
		assert.Contains(t, buf.String(), "  \"categories\"")
	})
}
