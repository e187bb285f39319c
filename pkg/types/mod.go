package types

// Mod is a single installed mod: a named directory under the instance's
// mods/ directory. Name is the on-disk spelling, which is also the spelling
// used in modlist.txt entries.
type Mod struct {
	Name string
	Path string
}

// ModSet is one side of a category option: the mods it turns on and off.
// Names are verbatim mod names; comparisons happen normalized downstream.
type ModSet struct {
	Enable  []string `json:"enable,omitempty"`
	Disable []string `json:"disable,omitempty"`
}

// Empty reports whether the set carries no names at all.
func (s ModSet) Empty() bool {
	return len(s.Enable) == 0 && len(s.Disable) == 0
}
