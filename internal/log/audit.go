package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// StructuredLogger writes the fixed-shape records other packages emit:
// request start and end lines and calendar writes.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPStart logs the start of a request. The request ID, if any, comes
// from the logger stored in ctx.
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	sl.from(ctx).LogAttrs(ctx, slog.LevelInfo, "HTTP request started",
		slog.String(FieldMethod, r.Method),
		slog.String(FieldPath, r.URL.Path),
		slog.String(FieldQuery, r.URL.RawQuery),
		slog.String(FieldClientIP, clientIP),
		slog.String(FieldUserAgent, r.UserAgent()),
	)
}

// LogHTTPEnd logs a finished request at info, warn for 4xx or error for 5xx.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, status int, elapsed time.Duration, clientIP string) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	sl.from(ctx).LogAttrs(ctx, level, "HTTP request completed",
		slog.String(FieldMethod, r.Method),
		slog.String(FieldPath, r.URL.Path),
		slog.Int(FieldStatusCode, status),
		slog.Int64(FieldDuration, elapsed.Milliseconds()),
		slog.String(FieldClientIP, clientIP),
	)
}

func (sl *StructuredLogger) LogSlotAssigned(ctx context.Context, weekID, slotID, accountID string) {
	sl.logger.LogAttrs(ctx, slog.LevelInfo, "Slot assigned",
		slog.String(FieldWeekID, weekID),
		slog.String(FieldSlotID, slotID),
		slog.String(FieldAccountID, accountID),
		slog.String(FieldOperation, OpAssign),
	)
}

func (sl *StructuredLogger) LogWeekStatus(ctx context.Context, weekID, status string) {
	sl.logger.LogAttrs(ctx, slog.LevelInfo, "Week status changed",
		slog.String(FieldWeekID, weekID),
		slog.String(FieldStatus, status),
		slog.String(FieldOperation, OpUpdate),
	)
}

// from prefers the request-scoped logger in ctx, keeping sl's component.
func (sl *StructuredLogger) from(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l.WithComponent(sl.logger.component)
	}
	return sl.logger
}
