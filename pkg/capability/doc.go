// Package capability evaluates what the machine's graphics stack supports,
// from a dxdiag XML export the user provides. Its one consumer is the
// shell's automatic dlss pick; engine stages never call it.
package capability
