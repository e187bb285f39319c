package rules

import (
	_ "embed"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alaxouche/loadout/pkg/errors"
	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/types"
)

//go:embed embedded/defaults.json
var defaultsJSON []byte

var (
	defaultsOnce sync.Once
	defaults     *Document
)

// Defaults returns a copy of the packaged default document.
func Defaults() *Document {
	defaultsOnce.Do(func() {
		root, err := parseRoot(defaultsJSON)
		if err != nil {
			// The packaged document is compiled in; failing to parse it is
			// a programming error.
			panic(err)
		}
		defaults = overlay(emptyDocument(), root)
	})
	return defaults.clone()
}

// Store loads the rule document of one instance and caches the parsed form
// against the file's modification time, so repeated loads between edits
// cost a single Stat.
type Store struct {
	fs   types.FS
	path string

	mu     sync.Mutex
	loaded bool
	mtime  time.Time
	doc    *Document
}

// NewStore binds a store to the rule document at path.
func NewStore(fsys types.FS, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Path returns the document location the store reads from.
func (s *Store) Path() string {
	return s.path
}

// Load returns the current rule document. Loading never fails: a missing
// file is seeded with the packaged defaults, an unusable one is replaced by
// them in memory, and a malformed section falls back to its packaged value
// while the rest of the document stays live. The returned document is the
// caller's to mutate.
func (s *Store) Load() *Document {
	logger := logging.GetLogger("rules")

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.fs.Stat(s.path)
	if err != nil && os.IsNotExist(err) {
		s.seed(logger)
		info, err = s.fs.Stat(s.path)
	}
	if err != nil {
		// No file to key a cache entry on; serve the packaged defaults
		// and forget any previous document.
		s.loaded = false
		s.doc = nil
		return Defaults()
	}

	if s.loaded && info.ModTime().Equal(s.mtime) {
		return s.doc.clone()
	}

	doc := s.read(logger)
	s.loaded = true
	s.mtime = info.ModTime()
	s.doc = doc
	return doc.clone()
}

// seed writes the packaged defaults to the store's path so users have a
// concrete file to edit. Failure only logs: the in-memory defaults still
// serve the load.
func (s *Store) seed(logger zerolog.Logger) {
	if err := filesystem.WriteAtomic(s.fs, s.path, defaultsJSON, 0644); err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("Cannot write default rule document")
		return
	}
	logger.Info().Str("path", s.path).Msg("Default rule document written")
}

// Seed writes the packaged default document to path. An existing document
// is only replaced when force is set.
func Seed(fsys types.FS, path string, force bool) error {
	if !force {
		if _, err := fsys.Stat(path); err == nil {
			return errors.Newf(errors.ErrAlreadyExists,
				"rule document already exists at %s", path).
				WithDetail("path", path)
		}
	}
	if err := filesystem.WriteAtomic(fsys, path, defaultsJSON, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write rule document to %s", path)
	}
	return nil
}

// Check validates the on-disk document against the same gate Load applies:
// it must exist, parse leniently, and carry a resolution section. Unlike
// Load it reports the failure instead of falling back to the packaged
// defaults.
func Check(fsys types.FS, path string) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrFileNotFound,
				"no rule document at %s", path).
				WithDetail("path", path)
		}
		return errors.Wrapf(err, errors.ErrFileAccess,
			"cannot read rule document at %s", path)
	}
	root, err := parseRoot(data)
	if err != nil {
		return errors.Wrap(err, errors.ErrRulesParse, "rule document does not parse")
	}
	if !validateMinimal(root) {
		return errors.New(errors.ErrRulesInvalid,
			"rule document misses the resolution section")
	}
	return nil
}

func (s *Store) read(logger zerolog.Logger) *Document {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		logger.Error().Err(err).Str("path", s.path).
			Msg("Cannot read rule document, using packaged defaults")
		return Defaults()
	}

	root, err := parseRoot(data)
	if err != nil {
		logger.Warn().Err(err).Str("path", s.path).
			Msg("Rule document does not parse, using packaged defaults")
		return Defaults()
	}
	if !validateMinimal(root) {
		logger.Warn().Str("path", s.path).
			Msg("Rule document misses the resolution section, using packaged defaults")
		return Defaults()
	}
	return overlay(Defaults(), root)
}

// parseRoot runs the lenient pass and decodes the result into raw
// top-level sections.
func parseRoot(data []byte) (map[string]json.RawMessage, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(stripLenient(data), &root); err != nil {
		return nil, err
	}
	return root, nil
}

// validateMinimal is the acceptance gate: the resolution section must be
// present and be an object. A document failing it is either foreign or too
// broken to trust, so the packaged defaults win wholesale.
func validateMinimal(root map[string]json.RawMessage) bool {
	raw, ok := root[CategoryResolution]
	if !ok {
		return false
	}
	var section map[string]json.RawMessage
	if err := json.Unmarshal(raw, &section); err != nil {
		return false
	}
	return section != nil
}

// canonKeyMap maps each canonical key to the spelling the document actually
// uses, resolved through the alias table case-insensitively.
func canonKeyMap(root map[string]json.RawMessage) map[string]string {
	present := make(map[string]string, len(root))
	for k := range root {
		present[strings.ToLower(k)] = k
	}
	mapping := make(map[string]string, len(categoryAliases))
	for canon, aliases := range categoryAliases {
		for _, alias := range aliases {
			if real, ok := present[strings.ToLower(alias)]; ok {
				mapping[canon] = real
				break
			}
		}
	}
	return mapping
}

// overlay applies a document's raw sections over base. Sections that fail
// to decode keep the base value so one bad edit never takes down the rest
// of the document. overlay owns base and returns it.
func overlay(base *Document, root map[string]json.RawMessage) *Document {
	logger := logging.GetLogger("rules")
	keymap := canonKeyMap(root)

	for _, canon := range selectionCategories {
		real, ok := keymap[canon]
		if !ok {
			continue
		}
		var cat Category
		if err := json.Unmarshal(root[real], &cat); err != nil {
			logger.Warn().Err(err).Str("category", canon).Str("key", real).
				Msg("Category does not decode, keeping packaged value")
			continue
		}
		if cat != nil {
			base.Categories[canon] = cat
		}
	}

	if real, ok := keymap[keyProfileOverrides]; ok {
		var po map[string]types.ModSet
		if err := json.Unmarshal(root[real], &po); err != nil {
			logger.Warn().Err(err).Str("key", real).
				Msg("Profile overrides do not decode, keeping packaged value")
		} else if po != nil {
			base.ProfileOverrides = po
		}
	}

	if raw, ok := root[keyDefaults]; ok {
		var d map[string]string
		if err := json.Unmarshal(raw, &d); err != nil {
			logger.Warn().Err(err).Msg("Defaults section does not decode, ignoring")
		} else if d != nil {
			base.Defaults = d
		}
	}

	if raw, ok := root[keyPreviews]; ok {
		var p map[string]map[string]string
		if err := json.Unmarshal(raw, &p); err != nil {
			logger.Warn().Err(err).Msg("Previews section does not decode, ignoring")
		} else if p != nil {
			base.Previews = p
		}
	}

	if raw, ok := root[keyPluginRules]; ok {
		var pr struct {
			Rules []types.PlacementRule `json:"rules"`
		}
		if err := json.Unmarshal(raw, &pr); err != nil {
			logger.Warn().Err(err).Msg("Plugin rules do not decode, ignoring")
		} else if pr.Rules != nil {
			base.PluginRules = pr.Rules
		}
	}

	if raw, ok := root[keyPluginGroups]; ok {
		var pg map[string]string
		if err := json.Unmarshal(raw, &pg); err != nil {
			logger.Warn().Err(err).Msg("Plugin groups do not decode, ignoring")
		} else if pg != nil {
			base.PluginGroups = pg
		}
	}

	if raw, ok := root[keyUIVisibility]; ok {
		base.UIVisibility = normalizeVisibility(raw)
	}

	return base
}

// normalizeVisibility builds the visibility map from a raw ui_visibility
// section: every canonical category starts visible, and alias-matched
// entries with a boolean value switch it.
func normalizeVisibility(raw json.RawMessage) map[string]bool {
	out := allVisible()
	var section map[string]json.RawMessage
	if err := json.Unmarshal(raw, &section); err != nil || section == nil {
		return out
	}
	present := make(map[string]json.RawMessage, len(section))
	for k, v := range section {
		present[strings.ToLower(k)] = v
	}
	for _, canon := range selectionCategories {
		for _, alias := range categoryAliases[canon] {
			v, ok := present[strings.ToLower(alias)]
			if !ok {
				continue
			}
			var b bool
			if err := json.Unmarshal(v, &b); err == nil {
				out[canon] = b
			}
			break
		}
	}
	return out
}

// emptyDocument is the zero overlay base used to materialize the packaged
// defaults.
func emptyDocument() *Document {
	return &Document{
		Categories:       make(map[string]Category, len(selectionCategories)),
		UIVisibility:     allVisible(),
		ProfileOverrides: map[string]types.ModSet{},
		Defaults:         map[string]string{},
		Previews:         map[string]map[string]string{},
		PluginGroups:     map[string]string{},
	}
}
