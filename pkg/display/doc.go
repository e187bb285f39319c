// Package display writes the SSEDisplayTweaks INI for the selected
// resolution. The base document comes from the highest-priority enabled mod
// shipping one (or a packaged minimal stub), the [Render] section is
// patched in place for a windowed-borderless run, and the result lands in
// the overwrite directory where it shadows every mod's copy.
package display
