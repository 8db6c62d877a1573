package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger builds the client logger from the resolved config: text
// on stderr for the terminal, JSON appended to the log file for later
// inspection. When the log file cannot be opened the logger degrades
// to stderr only. The returned cleanup closes the file and must run
// before exit.
func (c Config) SetupLogger() (*slog.Logger, func() error) {
	level := c.EffectiveLogLevel()

	file, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.Error("failed to open log file, using stderr only", "error", err, "file", c.LogFile)
		return newLogger(os.Stderr, io.Discard, level), func() error { return nil }
	}

	return newLogger(os.Stderr, file, level), file.Close
}

// EffectiveLogLevel resolves the level the handlers run at. Debug
// records play the role of a development-only channel: they are
// emitted in development or when debug mode is forced on, and stay
// silenced at the configured level everywhere else.
func (c Config) EffectiveLogLevel() slog.Level {
	if c.Debug || c.IsDevelopment() {
		return slog.LevelDebug
	}
	return c.LogLevel
}

// newLogger fans every record out to a text handler on the terminal
// writer and a JSON handler on the file writer.
func newLogger(terminal, file io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slogmulti.Fanout(
		slog.NewTextHandler(terminal, opts),
		slog.NewJSONHandler(file, opts),
	))
}
