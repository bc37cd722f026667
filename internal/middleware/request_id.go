package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestID ensures every request carries an identifier usable for tracing a
// request through logs.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		c.SetUserContext(context.WithValue(c.Context(), requestIDKey{}, id))

		return c.Next()
	}
}

// GetRequestID returns the identifier bound to the active request.
func GetRequestID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Locals("request_id").(string); ok {
		return value
	}
	return RequestIDFromContext(c.Context())
}

// RequestIDFromContext extracts the request identifier from a context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
