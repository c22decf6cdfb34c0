package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/studio-scheduler/internal/logging"
)

// Error kinds attached to log records as "error_kind" and to HTTP error bodies.
const (
	KindNotFound            = "not_found"
	KindUpstreamUnavailable = "upstream_unavailable"
	KindCanceled            = "canceled"
	KindTimeout             = "timeout"
	KindValidation          = "validation"
	KindUnexpected          = "unexpected"
)

// opLogger prefers the request scoped logger and tags it with the operation.
func (s *CalendarService) opLogger(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = s.logger
	}
	return logger.With(append([]any{"service", calendarServiceName, "operation", operation}, attrs...)...)
}

// ErrorKind maps sentinel and validation errors to a stable label.
func ErrorKind(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &vErr):
		return KindValidation
	default:
		return KindUnexpected
	}
}
