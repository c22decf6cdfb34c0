package http

import (
	"context"
	"log/slog"

	"github.com/example/studio-scheduler/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger tags the request scoped logger (or fallback) with the handler
// and operation names.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}
	return logger.With("handler", handlerName, "operation", operation)
}
