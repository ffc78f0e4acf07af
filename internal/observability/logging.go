// Package observability builds the process logger.
package observability

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"

	"lotteryd/internal/config"
)

// NewLogger creates a structured logger writing to w.
//
// cfg.Level must be one of "debug", "info", "warn", "error" and cfg.Format
// "json" or "plain".
func NewLogger(w io.Writer, cfg config.LogConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	switch cfg.Format {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return log.NewLogger(w, opts...), nil
}
