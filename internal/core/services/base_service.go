package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/travel_settlement/internal/middleware"
	"go.opentelemetry.io/otel"
)

const instrumentationName = "github.com/SscSPs/travel_settlement/internal/core/services"

var tracer = otel.Tracer(instrumentationName)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock returns the current time. Defaults to time.Now in UTC.
	Clock func() time.Time
}

func (s *BaseService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
