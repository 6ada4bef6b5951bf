package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ola-fintech/microcredit/internal/credit"
	"github.com/ola-fintech/microcredit/internal/middleware"
)

// RegisterCreditRoutes wires the credit lifecycle endpoints. Submissions go
// through the idempotency middleware when Redis is available, so a retried
// request cannot open two credit lines.
func RegisterCreditRoutes(r fiber.Router, h *credit.Handler, d Deps) {
	g := r.Group("/credit")
	if d.Cache != nil {
		g.Post("/", middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger), h.Request)
	} else {
		g.Post("/", h.Request)
	}
	g.Get("/:uid", h.Status)
	g.Post("/:uid/extension", h.RequestExtension)
}
