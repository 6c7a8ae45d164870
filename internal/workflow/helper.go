package workflow

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// SetupLogger configures the workflow logger on the given sink.
// It uses "tint" for colorized, structured logging that is easy to read in
// terminals while still carrying key/value context. A nil sink defaults to
// standard output, which is where the purge audit trail belongs.
func SetupLogger(level string, sink io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	if sink == nil {
		sink = os.Stdout
	}

	handler := tint.NewHandler(sink, &tint.Options{
		Level: logLevel,
	})

	return slog.New(handler)
}
