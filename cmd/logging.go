package cmd

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/talos-systems/sidero-docs/nav"
)

// Canonical log field names.
const (
	KeyBuildID  = "build_id"
	KeyConfig   = "config"
	KeyVersion  = "version"
	KeyCategory = "category"
	KeyPage     = "page"
	KeyRoute    = "route"
	KeyPath     = "path"
	KeyCount    = "count"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NormalizeLogLevel maps raw onto a known level, defaulting to info.
func NormalizeLogLevel(raw string) LogLevel {
	switch l := LogLevel(strings.ToLower(strings.TrimSpace(raw))); l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return l
	case "warning":
		return LogLevelWarn
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat maps raw onto a known format, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	if LogFormat(strings.ToLower(strings.TrimSpace(raw))) == LogFormatJSON {
		return LogFormatJSON
	}
	return LogFormatText
}

func newLogger(w io.Writer, level LogLevel, format LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.slogLevel()}
	if format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// warningAttrs spreads the structured parts of a build warning into log
// fields.
func warningAttrs(err error) []any {
	var (
		mismatch *nav.ContentMismatchError
		cfgErr   *nav.ConfigurationError
	)
	switch {
	case errors.As(err, &mismatch):
		return []any{
			slog.String(KeyPage, mismatch.Page.Path),
			slog.String(KeyVersion, mismatch.Page.Version),
			slog.String(KeyError, mismatch.Reason),
		}
	case errors.As(err, &cfgErr):
		attrs := []any{slog.String(KeyVersion, cfgErr.Version)}
		if cfgErr.Category != "" {
			attrs = append(attrs, slog.String(KeyCategory, cfgErr.Category))
		}
		return append(attrs, slog.String(KeyError, cfgErr.Reason))
	default:
		return []any{slog.String(KeyError, err.Error())}
	}
}
