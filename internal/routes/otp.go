package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ola-fintech/microcredit/internal/middleware"
	"github.com/ola-fintech/microcredit/internal/otp"
)

// RegisterOTPRoutes wires code issuance and verification.
func RegisterOTPRoutes(r fiber.Router, h *otp.Handler, cache *redis.Client, sendsPerMin int) {
	g := r.Group("/otp")
	g.Post("/:uid/send", middleware.OTPSendRateLimit(cache, sendsPerMin), h.Send)
	g.Post("/:uid/verify", h.Verify)
}
