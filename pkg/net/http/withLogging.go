package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mlog"
)

// HeaderRequestID propagates a request id from the edge through the MQ headers.
const HeaderRequestID = "X-Request-Id"

// WithCorrelationID ensures every request carries a request id, generating one when absent,
// and stores a request-scoped logger and id in the user context.
func WithCorrelationID(logger mlog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(HeaderRequestID, requestID)

		l := logger.WithFields("request_id", requestID)

		ctx := pkg.ContextWithRequestID(c.UserContext(), requestID)
		ctx = pkg.ContextWithLogger(ctx, l)

		c.SetUserContext(ctx)

		return c.Next()
	}
}

// WithHTTPLogging logs request lines after completion with latency and status.
func WithHTTPLogging(logger mlog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.Infof("%s %s %d %v", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))

		return err
	}
}
