package display

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

// defaultINI is the minimal document patched when no enabled mod ships a
// display INI of its own.
const defaultINI = `[Render]
# Written by loadout - minimal section if no base INI was found.
Fullscreen = false
Borderless = true
Resolution = 1920x1080
ResolutionScale = 1
`

var (
	sectionRE = regexp.MustCompile(`(?m)^(\s*\[.*?\]\s*)$`)
	renderRE  = regexp.MustCompile(`(?m)^\s*\[Render\]\s*$`)

	keyREMu sync.Mutex
	keyREs  = map[string]*regexp.Regexp{}
)

// keyRE matches a key assignment line, commented-out forms included, so a
// `#Fullscreen=true` template line is replaced rather than duplicated.
func keyRE(key string) *regexp.Regexp {
	keyREMu.Lock()
	defer keyREMu.Unlock()
	if rx, ok := keyREs[key]; ok {
		return rx
	}
	rx := regexp.MustCompile(`(?i)^\s*[#;]?\s*` + regexp.QuoteMeta(key) + `\s*=`)
	keyREs[key] = rx
	return rx
}

// renderKeys builds the [Render] assignments for a resolution, in the order
// they are appended when missing.
func renderKeys(res string) []keyValue {
	return []keyValue{
		{"Fullscreen", "false"},
		{"Borderless", "true"},
		{"BorderlessUpscale", "false"},
		{"Resolution", res},
		{"ResolutionScale", "1"},
	}
}

type keyValue struct {
	key   string
	value string
}

// PatchRender rewrites the [Render] section of an INI document for a
// windowed-borderless run at the given resolution. Existing assignments for
// the managed keys are replaced in place (a `#` or `;` commented form
// counts as existing), missing ones are appended at the section end, and
// every other line of the document survives byte for byte. A document
// without a [Render] section gains one at the bottom.
func PatchRender(text, res string) string {
	kvs := renderKeys(res)

	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if !renderRE.MatchString(text) {
		text += "[Render]\n"
	}

	var out strings.Builder
	inRender := false
	for _, c := range splitSections(text) {
		if c.header {
			inRender = renderRE.MatchString(c.text)
			out.WriteString(c.text)
			continue
		}
		if !inRender {
			out.WriteString(c.text)
			continue
		}
		out.WriteString(patchChunk(c.text, kvs))
	}
	return out.String()
}

// chunk is one slice of the document: a section header line, or the body
// between two headers.
type chunk struct {
	header bool
	text   string
}

// splitSections cuts the document into alternating body and section-header
// chunks. Every header is followed by a body chunk, empty when the header
// closes the document, so appends always have somewhere to land.
func splitSections(text string) []chunk {
	locs := sectionRE.FindAllStringIndex(text, -1)
	var parts []chunk
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		// The header keeps its trailing newline so body chunks stay
		// line-aligned.
		if end < len(text) && text[end] == '\n' {
			end++
		}
		if start > prev {
			parts = append(parts, chunk{text: text[prev:start]})
		}
		parts = append(parts, chunk{header: true, text: text[start:end]})
		prev = end
	}
	parts = append(parts, chunk{text: text[prev:]})
	return parts
}

// patchChunk rewrites one [Render] body: managed keys replaced where seen,
// then appended where not.
func patchChunk(chunk string, kvs []keyValue) string {
	lines := splitKeepEnds(chunk)
	found := make(map[string]bool, len(kvs))

	var out []string
	for _, ln := range lines {
		replaced := false
		for _, kv := range kvs {
			if keyRE(kv.key).MatchString(ln) {
				out = append(out, fmt.Sprintf("%s = %s\n", kv.key, kv.value))
				found[kv.key] = true
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, ln)
		}
	}
	if len(out) > 0 && !strings.HasSuffix(out[len(out)-1], "\n") {
		out[len(out)-1] += "\n"
	}
	for _, kv := range kvs {
		if !found[kv.key] {
			out = append(out, fmt.Sprintf("%s = %s\n", kv.key, kv.value))
		}
	}
	return strings.Join(out, "")
}

// splitKeepEnds splits into lines, each keeping its trailing newline.
func splitKeepEnds(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			return lines
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
		if text == "" {
			return lines
		}
	}
}

// FindBaseINI locates the display INI to patch: enabled mods are scanned in
// reverse mod-list order (the last, winning mod first) for relPath under
// their directory. Empty when none carries one.
func FindBaseINI(fsys types.FS, pather types.Pather, enabledMods []string, relPath string) string {
	for i := len(enabledMods) - 1; i >= 0; i-- {
		p := filepath.Join(pather.ModDir(enabledMods[i]), filepath.FromSlash(relPath))
		if _, err := fsys.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Apply composes and writes the display INI for a resolution into the
// overwrite directory, returning the written path. The base text comes from
// the highest-priority enabled mod shipping relPath, or the packaged
// minimal document.
func Apply(fsys types.FS, pather types.Pather, enabledMods []string, relPath, res string) (string, error) {
	logger := logging.GetLogger("display")

	base := defaultINI
	if basePath := FindBaseINI(fsys, pather, enabledMods, relPath); basePath != "" {
		data, err := fsys.ReadFile(basePath)
		if err != nil {
			logger.Warn().Err(err).Str("path", basePath).
				Msg("Cannot read base display INI, using packaged minimal document")
		} else {
			base = string(data)
			logger.Info().Str("path", basePath).Msg("Base display INI found in enabled mod")
		}
	} else {
		logger.Info().Msg("No base display INI found, using packaged minimal document")
	}

	target := filepath.Join(pather.OverwriteDir(), filepath.FromSlash(relPath))
	dir := filepath.Dir(target)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrDirCreate, "cannot create overwrite directory").
			WithDetail("path", dir)
	}
	if err := filesystem.WriteAtomic(fsys, target, []byte(PatchRender(base, res)), 0644); err != nil {
		return "", err
	}
	logger.Info().Str("path", target).Str("resolution", res).Msg("Display INI written")
	return target, nil
}
