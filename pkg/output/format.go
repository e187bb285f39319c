package output

import (
	"strings"

	"github.com/Alaxouche/loadout/pkg/errors"
)

// Format selects how command results are written.
type Format string

const (
	// FormatText is the human-readable terminal layout.
	FormatText Format = "text"

	// FormatJSON is indented JSON for machine consumption.
	FormatJSON Format = "json"

	// FormatYAML is YAML mirroring the JSON field names.
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied name onto a Format. The empty string
// means text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown output format %q", name).
			WithDetail("format", name)
	}
}
