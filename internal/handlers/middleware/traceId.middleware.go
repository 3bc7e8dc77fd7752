package middleware

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TraceID attaches a per-request trace id that controller loggers pick up
// via TraceFromContext.
func (m *Middleware) TraceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Locals(logger.DefaultTraceIDKey, traceID)
		c.Set("X-Trace-ID", traceID)

		return c.Next()
	}
}
