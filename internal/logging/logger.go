package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
)

// LevelEnv selects the log level: debug, info, warn or error
const LevelEnv = "DAO_LOG_LEVEL"

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration.
// Logs go to stderr so stdout stays clean for rendered and --json output.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg, os.Getenv(LevelEnv))
}

func newLogger(w io.Writer, cfg *config.RuntimeConfig, levelName string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(levelName),
		ReplaceAttr: replaceAttr,
	}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parseLevel falls back to info for empty or unknown names
func parseLevel(name string) slog.Level {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "warning" {
		name = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		// Drop time for terminal output
		if len(groups) == 0 {
			return slog.Attr{}
		}
	case slog.SourceKey:
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = shortPath(source.File)
		}
	}
	return a
}

// shortPath trims a source path to its package directory and file
func shortPath(file string) string {
	if idx := strings.Index(file, "dao-cli/"); idx != -1 {
		return file[idx+len("dao-cli/"):]
	}
	return filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file))
}
