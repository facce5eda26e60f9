package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hogenchat/internal/observability"
)

// RequestLog tags every request with an X-Request-ID, writes a structured
// access log line and counts the request. Health and metrics probes are
// kept out of the log.
func RequestLog(metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("X-Request-ID", requestID)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		metrics.HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()

		if c.Path() == "/health" || c.Path() == "/metrics" {
			return err
		}
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
			"ip", c.IP(),
		)
		return err
	}
}
