package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/sellhub/pos-backend/pkg/logger"
)

// StructuredLoggingMiddleware writes one access log line per request,
// levelled by status and carrying the trace id for correlation with the
// backend's logs.
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		evt := logger.WithContext(c.UserContext()).Info()
		switch {
		case status >= 500:
			evt = logger.WithContext(c.UserContext()).Error()
		case status >= 400:
			evt = logger.WithContext(c.UserContext()).Warn()
		}

		if err != nil {
			evt = evt.Err(err)
		}
		if span := trace.SpanFromContext(c.UserContext()); span.SpanContext().IsValid() {
			evt = evt.Str("trace_id", span.SpanContext().TraceID().String())
		}
		if requestID := c.Get("X-Request-Id"); requestID != "" {
			evt = evt.Str("request_id", requestID)
		}

		evt.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("response_size", len(c.Response().Body())).
			Msg("Gateway request")

		return err
	}
}
