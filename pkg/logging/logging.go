package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogFile overrides the log file location when set.
const EnvLogFile = "LOADOUT_LOG_FILE"

// SetupLogger configures the global logger for one CLI invocation: console
// output on stderr plus an append-only file sink under the XDG state dir.
// The verbosity count maps onto zerolog levels via level().
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(level(verbosity))

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	sinks := []io.Writer{console}
	logFile := LogFilePath()
	file, err := openLogFile(logFile)
	if err == nil {
		sinks = append(sinks, file)
	}

	log.Logger = zerolog.New(io.MultiWriter(sinks...)).With().Timestamp().Logger()

	// The sink failure is reported through the logger it could not join.
	if err != nil {
		log.Warn().Err(err).Str("path", logFile).Msg("Cannot open log file, logging to console only")
	}

	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// level maps -v counts onto zerolog levels: warnings only by default, then
// info, debug, and trace for everything beyond.
func level(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a logger tagged with a component name. Each package
// pulls its own ("engine", "rules", "loadorder", ...) so lines can be
// filtered per concern.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogFilePath resolves where the file sink lives: the LOADOUT_LOG_FILE
// override, then $XDG_STATE_HOME/loadout/loadout.log, then the home
// fallback under ~/.local/state. XDG_STATE_HOME is read per call, not
// cached, so tests can repoint it with t.Setenv.
func LogFilePath() string {
	if override := os.Getenv(EnvLogFile); override != "" {
		return override
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "loadout.log"
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "loadout", "loadout.log")
}

// openLogFile creates the sink's parent directories and opens it for
// appending.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}
