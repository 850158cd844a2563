package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/raphaelgruber/stepmcp/internal/metrics"
)

// maxArgLogLen is the maximum length for logged params before truncation.
const maxArgLogLen = 200

// slowRequestThreshold is the duration above which requests are logged at WARN level.
const slowRequestThreshold = 100 * time.Millisecond

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Chain applies middleware so the first one listed runs outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// LoggingMiddleware returns middleware that logs all requests with timing.
// Slow requests (>100ms) are logged at WARN level.
// Params are truncated to 200 characters.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) *Response {
			start := time.Now()

			resp := next(ctx, req)

			duration := time.Since(start)

			attrs := []any{
				"method", req.Method,
				"duration_ms", duration.Milliseconds(),
			}

			if params := formatParams(req); params != "" {
				attrs = append(attrs, "params", truncate(params, maxArgLogLen))
			}

			if resp != nil && resp.Error != nil {
				attrs = append(attrs, "code", resp.Error.Code, "error", resp.Error.Message)
				logger.Error("request failed", attrs...)
			} else if duration > slowRequestThreshold {
				logger.Warn("slow request", attrs...)
			} else {
				logger.Debug("request completed", attrs...)
			}

			return resp
		}
	}
}

// MetricsMiddleware records per-method timing into collector.
func MetricsMiddleware(collector *metrics.Collector) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) *Response {
			start := time.Now()
			resp := next(ctx, req)
			collector.RecordRequest(req.Method, time.Since(start), resp == nil || resp.Error != nil)
			return resp
		}
	}
}

// RecoveryMiddleware converts a panic while handling a request into an
// internal error response for that request's id.
func RecoveryMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (resp *Response) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic while handling request",
						"method", req.Method,
						"panic", fmt.Sprint(r),
						"stack", string(debug.Stack()),
					)
					resp = NewError(req.ID, CodeInternalError, MsgInternalError)
				}
			}()
			return next(ctx, req)
		}
	}
}

// formatParams formats request parameters for logging.
func formatParams(req *Request) string {
	if len(req.Params) == 0 {
		return ""
	}
	parts := make(map[string]string, len(req.Params))
	for k, v := range req.Params {
		parts[k] = string(v)
	}
	return fmt.Sprintf("%v", parts)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
