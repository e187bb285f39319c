package loadorder

import (
	"regexp"
	"strings"
	"sync"

	"github.com/Alaxouche/loadout/pkg/logging"
	"github.com/Alaxouche/loadout/pkg/plugins"
	"github.com/Alaxouche/loadout/pkg/types"
)

// Position says where an inserted plugin lands relative to its anchor.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
	End    Position = "end"
)

// patternCache compiles anchor and match regexes once per pattern. Invalid
// patterns are remembered, and warned about only on first sight, so a bad
// rule does not flood the log once per plugin.
type patternCache struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
	invalid  map[string]struct{}
}

var patterns = &patternCache{
	compiled: make(map[string]*regexp.Regexp),
	invalid:  make(map[string]struct{}),
}

func (c *patternCache) get(pattern string) (*regexp.Regexp, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rgx, ok := c.compiled[pattern]; ok {
		return rgx, true
	}
	if _, ok := c.invalid[pattern]; ok {
		return nil, false
	}
	rgx, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		c.invalid[pattern] = struct{}{}
		logger := logging.GetLogger("loadorder.rules")
		logger.Warn().
			Err(err).
			Str("pattern", pattern).
			Msg("Invalid placement regex")
		return nil, false
	}
	c.compiled[pattern] = rgx
	return rgx, true
}

// MatchRule returns the first rule that matches plugin, or nil. A rule
// matches when its Match equals the plugin name under Normalize, or failing
// that, when its MatchRegex finds the plugin name (case-insensitive).
// Rules with invalid regexes simply never match by regex.
func MatchRule(plugin string, rules []types.PlacementRule) *types.PlacementRule {
	key := plugins.Normalize(plugin)
	for i := range rules {
		rule := &rules[i]
		if m := strings.TrimSpace(rule.Match); m != "" && key == plugins.Normalize(m) {
			return rule
		}
		if rule.MatchRegex != "" {
			if rgx, ok := patterns.get(rule.MatchRegex); ok && rgx.FindStringIndex(plugin) != nil {
				return rule
			}
		}
	}
	return nil
}

// ResolveAnchors evaluates a rule's anchor specs against the current order
// and picks the concrete anchor entry and position. All before specs (exact
// and regex) form one candidate set, all after specs another; the anchor is
// the first entry of the current order found in a set, with before sets
// taking precedence. No usable anchor means an empty anchor and End.
func ResolveAnchors(rule *types.PlacementRule, order []string) (string, Position) {
	if rule == nil {
		return "", End
	}

	before := make(map[string]struct{})
	after := make(map[string]struct{})
	resolveExact(rule.Before, order, before)
	resolveExact(rule.After, order, after)
	resolveRegex(rule.BeforeRegex, order, before)
	resolveRegex(rule.AfterRegex, order, after)

	if anchor, ok := pickAnchor(order, before); ok {
		return anchor, Before
	}
	if anchor, ok := pickAnchor(order, after); ok {
		return anchor, After
	}
	return "", End
}

// resolveExact adds every order entry equal (case-insensitive, trimmed) to
// one of the listed names.
func resolveExact(values types.StringList, order []string, out map[string]struct{}) {
	for _, value := range values {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		for _, name := range order {
			if strings.ToLower(strings.TrimSpace(name)) == key {
				out[name] = struct{}{}
			}
		}
	}
}

// resolveRegex adds every order entry found by one of the listed patterns.
// A pattern that does not compile degrades to an exact name comparison, so
// a plain filename with regex metacharacters still anchors.
func resolveRegex(values types.StringList, order []string, out map[string]struct{}) {
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		rgx, ok := patterns.get(value)
		if !ok {
			resolveExact(types.StringList{value}, order, out)
			continue
		}
		for _, name := range order {
			if rgx.FindStringIndex(name) != nil {
				out[name] = struct{}{}
			}
		}
	}
}

// pickAnchor returns the first entry of order present in anchors,
// preserving the order file's spelling.
func pickAnchor(order []string, anchors map[string]struct{}) (string, bool) {
	if len(anchors) == 0 {
		return "", false
	}
	lowered := make(map[string]struct{}, len(anchors))
	for anchor := range anchors {
		lowered[strings.ToLower(anchor)] = struct{}{}
	}
	for _, name := range order {
		if _, ok := lowered[strings.ToLower(name)]; ok {
			return name, true
		}
	}
	return "", false
}

// Insert returns a new order with plugin spliced in. Any existing
// occurrence of the plugin (case-insensitive) is removed first. The plugin
// always stays inside its extension-rank bucket: it lands before or after
// the anchor when the anchor shares its rank, and at the end of the bucket
// when the anchor is missing, of a different rank, or the position is End.
func Insert(order []string, plugin, anchor string, pos Position) []string {
	key := strings.ToLower(strings.TrimSpace(plugin))
	kept := make([]string, 0, len(order)+1)
	for _, name := range order {
		if strings.ToLower(strings.TrimSpace(name)) == key {
			continue
		}
		kept = append(kept, name)
	}

	rank := plugins.ExtRank(plugin)
	buckets := partitionByRank(kept)
	bucket := buckets[rank]

	placed := false
	if anchor != "" && pos != End && plugins.ExtRank(anchor) == rank {
		anchorKey := strings.ToLower(strings.TrimSpace(anchor))
		for i, name := range bucket {
			if strings.ToLower(strings.TrimSpace(name)) != anchorKey {
				continue
			}
			at := i
			if pos == After {
				at = i + 1
			}
			spliced := make([]string, 0, len(bucket)+1)
			spliced = append(spliced, bucket[:at]...)
			spliced = append(spliced, plugin)
			spliced = append(spliced, bucket[at:]...)
			bucket = spliced
			placed = true
			break
		}
	}
	if !placed {
		bucket = append(bucket, plugin)
	}
	buckets[rank] = bucket

	return mergeBuckets(buckets)
}

func partitionByRank(order []string) [4][]string {
	var buckets [4][]string
	for _, name := range order {
		rank := plugins.ExtRank(name)
		buckets[rank] = append(buckets[rank], name)
	}
	return buckets
}

func mergeBuckets(buckets [4][]string) []string {
	out := make([]string, 0, len(buckets[0])+len(buckets[1])+len(buckets[2])+len(buckets[3]))
	for _, bucket := range buckets {
		out = append(out, bucket...)
	}
	return out
}
