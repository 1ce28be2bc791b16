package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pkim-dev/usersvc/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, users *handlers.UserHandler, health *handlers.HealthHandler, authMW fiber.Handler) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	// Public routes
	app.Post("/register", users.Register)
	app.Post("/login", users.Login)
	app.Get("/users/:id", users.GetUser)

	// Protected routes behind the bearer-token gate
	app.Post("/logout", authMW, users.Logout)
	app.Get("/userinfo", authMW, users.UserInfo)
	app.Post("/changepassword", authMW, users.ChangePassword)
	app.Post("/delete", authMW, users.Delete)
}
