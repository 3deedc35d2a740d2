package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/presensi-go-api/internal/config"
	"github.com/noah-isme/presensi-go-api/internal/handler"
	"github.com/noah-isme/presensi-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SessionHandler    *handler.SessionHandler
	AttendanceHandler *handler.AttendanceHandler
	JWTMiddleware     fiber.Handler
	AIDraftLimiter    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.SessionHandler != nil {
		auth := api.Group("/auth")
		deps.SessionHandler.Register(auth)
		deps.SessionHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", jwtMiddleware)
		deps.AttendanceHandler.Register(attendance, deps.AIDraftLimiter)
	}
}
