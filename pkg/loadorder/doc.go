// Package loadorder maintains a profile's loadorder.txt.
//
// The merger is incremental: existing entries are never reordered, only new
// plugins are spliced in. Every plugin belongs to an extension-rank bucket
// (masters, then standard plugins, then light plugins, then everything
// else) and placement rules can only move a plugin within its own bucket.
// A rule names anchors (exact entries or regex patterns) already present in
// the order; the new plugin lands directly before or after the first
// matching anchor, or at the end of its bucket when no anchor applies.
//
// Sync drives the whole pass: discover plugins across the enabled mods,
// splice each missing one into the order (re-reading the file before every
// insertion), activate it, and finish with a batch activation of the full
// resulting order. Failures are contained per plugin so one bad entry never
// aborts the pass.
package loadorder
