package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/ButyrinIA/qotd/internal/config"
)

// Setup installs the process-wide slog logger: text in development, JSON
// everywhere else.
func Setup(cfg *config.Config) {
	slog.SetDefault(New(os.Stdout, cfg))
}

func New(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", "qotd")
}
