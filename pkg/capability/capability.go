package capability

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

// Report summarizes the display stack of a dxdiag XML export.
type Report struct {
	// MaxWDDM is the highest WDDM driver-model version across display
	// devices, 0 when none reported one.
	MaxWDDM float64 `json:"max_wddm"`

	// Devices lists the display device names, in document order.
	Devices []string `json:"devices,omitempty"`
}

// ParseReport reads a dxdiag XML export and extracts the driver model of
// every display device. Devices without a WDDM driver model still
// contribute their name; an export with no DisplayDevice elements yields
// an empty report, not an error.
func ParseReport(data []byte) (*Report, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "dxdiag export does not parse")
	}

	report := &Report{}
	for _, device := range doc.FindElements("//DisplayDevices/DisplayDevice") {
		if name := elementText(device, "CardName"); name != "" {
			report.Devices = append(report.Devices, name)
		}
		model := elementText(device, "DriverModel")
		if !strings.Contains(model, "WDDM") {
			continue
		}
		raw := strings.TrimSpace(strings.ReplaceAll(model, "WDDM", ""))
		ver, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logger := logging.GetLogger("capability")
			logger.Debug().
				Str("driver_model", model).
				Msg("Unparseable driver model version")
			continue
		}
		if ver > report.MaxWDDM {
			report.MaxWDDM = ver
		}
	}
	return report, nil
}

func elementText(parent *etree.Element, tag string) string {
	el := parent.SelectElement(tag)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// DLSSCapable reports whether the strongest display driver meets the
// minimum driver model required for upscaler support.
func DLSSCapable(r *Report, minWDDM float64) bool {
	capable := r != nil && r.MaxWDDM >= minWDDM
	logger := logging.GetLogger("capability")
	logger.Info().
		Float64("wddm", wddmOf(r)).
		Float64("min", minWDDM).
		Bool("capable", capable).
		Msg("Upscaler capability check")
	return capable
}

func wddmOf(r *Report) float64 {
	if r == nil {
		return 0
	}
	return r.MaxWDDM
}

// CachedReport returns the report stored at path, if any. Unreadable or
// unparseable caches read as absent.
func CachedReport(fsys types.FS, path string) (*Report, bool) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false
	}
	return &r, true
}

// StoreReport caches a report at path. Failure only logs: the cache is an
// optimization, never a requirement.
func StoreReport(fsys types.FS, path string, r *Report) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return
	}
	if err := filesystem.WriteAtomic(fsys, path, data, 0644); err != nil {
		logger := logging.GetLogger("capability")
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("Cannot write capability cache")
	}
}
