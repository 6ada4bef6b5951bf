package admin

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the admin console endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an admin HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListUsers returns a filtered, paginated user report.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	result, err := h.service.ListUsers(c.UserContext(),
		c.Query("search"),
		c.QueryBool("pending"),
		c.QueryBool("active"),
		c.QueryInt("page", 1),
		c.QueryInt("limit", defaultPageSize),
	)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
