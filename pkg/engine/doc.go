// Package engine orchestrates the pipeline that turns user selections into
// file state: rule loading, modlist reconciliation, incremental load-order
// merging with activation, plugin-group sync and the display INI write.
//
// Stages run in that fixed order and are individually recovered: a failing
// stage lands in the run summary and the remaining stages still execute.
// The engine is single-writer; shells serialize runs.
package engine
