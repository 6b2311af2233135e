// Package observability provides the slog logger factory and the Prometheus
// metric set shared by the engine and its adapters.
package observability

import (
	"log/slog"
	"os"
)

// LoggerConfig is the slice of service configuration the logger needs.
type LoggerConfig interface {
	SlogLevel() slog.Level
	SlogFormat() string
}

// NewLogger builds the process logger from LOG_LEVEL / LOG_FORMAT. Unknown
// formats fall back to JSON.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.SlogFormat() == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
