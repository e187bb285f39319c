package resolution

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var resolutionRE = regexp.MustCompile(`(?i)^\s*(\d+)\s*x\s*(\d+)\s*$`)

// ByRatio lists common display modes per aspect-ratio family, ordered by
// size. Shells presenting a resolution picker draw their choices from here.
var ByRatio = map[string][]string{
	"16:9":  {"1280x720", "1600x900", "1920x1080", "2560x1440", "3200x1800", "3840x2160", "5120x2880", "7680x4320"},
	"16:10": {"1280x800", "1440x900", "1680x1050", "1920x1200", "2560x1600", "3840x2400"},
	"21:9":  {"2560x1080", "3440x1440", "3840x1600", "5120x2160"},
	"32:9":  {"3840x1080", "5120x1440", "7680x2160"},
	"3:2":   {"2160x1440", "2256x1504", "2496x1664", "2736x1824", "3000x2000", "3240x2160"},
	"4:3":   {"1024x768", "1280x960", "1600x1200", "2048x1536"},
	"5:4":   {"1280x1024", "2560x2048"},
}

// ratioFamilies are the known aspect ratios a display is snapped onto.
var ratioFamilies = []struct {
	label string
	value float64
}{
	{"16:9", 16.0 / 9.0},
	{"16:10", 16.0 / 10.0},
	{"21:9", 21.0 / 9.0},
	{"32:9", 32.0 / 9.0},
	{"3:2", 3.0 / 2.0},
	{"4:3", 4.0 / 3.0},
	{"5:4", 5.0 / 4.0},
}

// ratioTolerance is the maximum relative deviation from a family's quotient
// still considered a match. 1366x768 lands on 16:9 with room to spare.
const ratioTolerance = 0.02

// Parse extracts width and height from a "WxH" string. Whitespace around
// the numbers and a capital X are accepted.
func Parse(text string) (w, h int, ok bool) {
	m := resolutionRE.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	w, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	h, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}

// Bucket maps a "WxH" string onto the height band labels rule documents
// key their resolution options on. Unparseable input lands on 1080p.
func Bucket(text string) string {
	_, h, ok := Parse(text)
	if !ok {
		return "1080p"
	}
	switch {
	case h < 800:
		return "720p"
	case h < 1000:
		return "900p"
	case h < 1140:
		return "1080p"
	case h < 1300:
		return "1200p"
	case h < 1500:
		return "1440p"
	case h < 2000:
		return "1600p"
	case h < 2400:
		return "4K"
	case h < 3000:
		return "5K"
	default:
		return "8K"
	}
}

// NormalizeRatio snaps a display size onto the nearest known aspect-ratio
// family. A size off every family by more than the tolerance comes back as
// its exact ratio reduced by gcd; non-positive sizes default to 16:9.
func NormalizeRatio(w, h int) string {
	if w <= 0 || h <= 0 {
		return "16:9"
	}
	r := float64(w) / float64(h)
	best, bestDiff := "16:9", math.MaxFloat64
	for _, fam := range ratioFamilies {
		diff := math.Abs(r-fam.value) / fam.value
		if diff < bestDiff {
			best, bestDiff = fam.label, diff
		}
	}
	if bestDiff <= ratioTolerance {
		return best
	}
	g := gcd(w, h)
	return fmt.Sprintf("%d:%d", w/g, h/g)
}

// NearestInList picks the option closest to the target size. Options
// sharing the target's aspect-ratio family are preferred; among the
// candidates the smallest absolute pixel-area difference wins. Unparseable
// options are skipped, and ok is false when nothing qualifies.
func NearestInList(w, h int, options []string) (string, bool) {
	targetRatio := NormalizeRatio(w, h)
	targetArea := w * h

	best, bestDiff := "", -1
	bestSameRatio := false
	for _, opt := range options {
		ow, oh, ok := Parse(opt)
		if !ok {
			continue
		}
		sameRatio := NormalizeRatio(ow, oh) == targetRatio
		if bestSameRatio && !sameRatio {
			continue
		}
		diff := ow*oh - targetArea
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || (sameRatio && !bestSameRatio) || diff < bestDiff {
			best, bestDiff, bestSameRatio = opt, diff, sameRatio
		}
	}
	return best, bestDiff >= 0
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
