// Package watch drives watch mode: it observes the state files that feed a
// sync (the profile's modlist and the instance rule document) through
// fsnotify and re-runs the sync after a debounced quiet period.
//
// The parent directories of the watched files are registered rather than
// the files themselves, so editors and tools that replace files atomically
// (write a temp file, then rename over the target) still produce events.
package watch
