package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ola-fintech/microcredit/internal/admin"
	"github.com/ola-fintech/microcredit/internal/credit"
)

// RegisterAdminRoutes wires the guarded back-office endpoints.
func RegisterAdminRoutes(r fiber.Router, h *admin.Handler, credits *credit.Handler) {
	r.Get("/users", h.ListUsers)
	r.Post("/credit/:id/decision", credits.Decide)
}
