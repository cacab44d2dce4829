// Package logger provides the process-wide diagnostic logger.
//
// Diagnostics go to stderr so they never mix with JSON written to stdout.
// Operator-facing results are printed by the cli package instead.
package logger

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

var defaultLogger = newLogger(DefaultConfig())

// Config holds the logger configuration.
type Config struct {
	Level  charmlog.Level
	Output io.Writer
	JSON   bool
}

// DefaultConfig logs warnings and errors to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  charmlog.WarnLevel,
		Output: os.Stderr,
	}
}

// Init replaces the default logger.
func Init(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	defaultLogger = newLogger(cfg)
}

func newLogger(cfg *Config) *charmlog.Logger {
	l := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		Level:           cfg.Level,
		Prefix:          "stripdb",
		ReportTimestamp: cfg.Level == charmlog.DebugLevel,
		TimeFormat:      "15:04:05",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return l
}

// Get returns the current logger.
func Get() *charmlog.Logger {
	return defaultLogger
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}
