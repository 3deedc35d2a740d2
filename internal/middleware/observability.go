package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/observability"
)

// Observability records request metrics and emits a structured access log
// line per request.
func Observability(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		method := c.Method()
		elapsed := time.Since(start)

		observability.Requests().WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		observability.Latency().WithLabelValues(method, route).Observe(elapsed.Seconds())
		if status >= fiber.StatusBadRequest {
			observability.Errors().WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		}

		logger.Debug().
			Str("method", method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("correlation_id", GetCorrelationID(c)).
			Msg("request handled")

		return err
	}
}
