package types

import "encoding/json"

// StringList decodes a JSON value that may be a single string or an array
// of strings. Rule authors write `"before": "Skyrim.esm"` and
// `"before": ["a.esp", "b.esp"]` interchangeably.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// PlacementRule steers where a newly discovered plugin is spliced into the
// load order. Match is compared separator-insensitively against the plugin
// filename; MatchRegex is a case-insensitive fallback when Match misses.
// Before/After name existing order entries exactly (case-insensitive);
// BeforeRegex/AfterRegex match entries by pattern. The first rule whose
// match hits wins.
type PlacementRule struct {
	Match       string     `json:"match,omitempty"`
	MatchRegex  string     `json:"match_regex,omitempty"`
	Before      StringList `json:"before,omitempty"`
	After       StringList `json:"after,omitempty"`
	BeforeRegex StringList `json:"before_regex,omitempty"`
	AfterRegex  StringList `json:"after_regex,omitempty"`
}
