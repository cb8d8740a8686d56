package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dailylaw/ledge-backend/internal/config"
)

// emailKeys are the attribute keys that carry a subscriber address.
var emailKeys = map[string]bool{"subscriber": true, "email": true, "to": true}

// NewLogger builds the process logger on stderr and installs it as the slog
// default. Format "json" is for production; anything else gets the text
// handler with source locations.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	jsonFormat := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !jsonFormat,
	}
	if cfg.MaskEmails {
		opts.ReplaceAttr = maskEmailAttr
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("app", "ledge"),
		slog.String("version", Version),
	)
}

func maskEmailAttr(_ []string, a slog.Attr) slog.Attr {
	if emailKeys[a.Key] && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, maskEmail(a.Value.String()))
	}
	return a
}

// maskEmail keeps the first character of the local part and the domain:
// jane@example.org becomes j***@example.org.
func maskEmail(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return addr
	}
	return local[:1] + "***@" + domain
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "warning":
		return slog.LevelWarn
	case "":
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
