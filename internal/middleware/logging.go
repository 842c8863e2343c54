// Package middleware holds the Fiber middleware shared by every route.
package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestIDKey is the Locals key holding the request id.
const RequestIDKey = "requestid"

// RequestID tags every request with an X-Request-ID (generated when the client
// sends none).
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: RequestIDKey,
	})
}

// Logging writes one access-log line per request. Errors from the rest of the
// chain are rendered here so the logged status is the one the client sees.
func Logging(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		rid, _ := c.Locals(RequestIDKey).(string)
		logger.Printf("[HTTP] %s %s %d %s rid=%s",
			c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start).Round(time.Microsecond), rid)
		return nil
	}
}
