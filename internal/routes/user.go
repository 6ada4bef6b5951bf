package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ola-fintech/microcredit/internal/user"
)

// RegisterUserRoutes wires registration and profile endpoints.
func RegisterUserRoutes(r fiber.Router, h *user.Handler) {
	g := r.Group("/users")
	g.Post("/", h.Register)
	g.Get("/check", h.CheckCredentials)
	g.Get("/:uid", h.Get)
	g.Put("/:uid/profile", h.UpdateProfile)
	g.Put("/:uid/bank-account", h.UpdateBankAccount)
}
