package otp

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes OTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an OTP HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send issues a fresh code to the user's phone.
func (h *Handler) Send(c *fiber.Ctx) error {
	if err := h.service.Issue(c.UserContext(), c.Params("uid")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sent": true})
}

type verifyRequest struct {
	Code string `json:"code"`
}

// Verify consumes the user's current code.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.Verify(c.UserContext(), c.Params("uid"), req.Code); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"verified": true})
}
