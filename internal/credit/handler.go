package credit

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes credit endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a credit HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type requestCreditRequest struct {
	UID             string  `json:"uid"`
	RequestedAmount float64 `json:"requestedAmount"`
	CurrentInterest float64 `json:"currentInterest"`
	AdminFee        float64 `json:"adminFee"`
	VAT             float64 `json:"vat"`
	TotalPayable    float64 `json:"totalPayable"`
	DueDate         string  `json:"dueDate"`
	OTPCode         string  `json:"otpCode"`
	OTPIssuedAt     string  `json:"otpIssuedAt"`
}

// Status reports the request that defines the user's current credit standing.
func (h *Handler) Status(c *fiber.Ctx) error {
	req, err := h.service.ActiveOrRecentlyRejected(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"credit": req})
}

// Request submits a new credit request.
func (h *Handler) Request(c *fiber.Ctx) error {
	var req requestCreditRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	issuedAt, err := time.Parse(time.RFC3339, req.OTPIssuedAt)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "otpIssuedAt must be RFC 3339")
	}

	id, err := h.service.RequestCredit(c.UserContext(), Input{
		UID:             req.UID,
		RequestedAmount: req.RequestedAmount,
		CurrentInterest: req.CurrentInterest,
		AdminFee:        req.AdminFee,
		VAT:             req.VAT,
		TotalPayable:    req.TotalPayable,
		DueDate:         req.DueDate,
		OTPCode:         req.OTPCode,
		OTPIssuedAt:     issuedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": id})
}

// RequestExtension flags the user's active credit for a payment extension.
func (h *Handler) RequestExtension(c *fiber.Ctx) error {
	if err := h.service.RequestExtension(c.UserContext(), c.Params("uid")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"extensionRequested": true})
}

type decisionRequest struct {
	Status         string   `json:"status"`
	ApprovedAmount *float64 `json:"approvedAmount"`
}

// Decide applies a back-office ruling on a request.
func (h *Handler) Decide(c *fiber.Ctx) error {
	var req decisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Decide(c.UserContext(), c.Params("id"), Decision{
		Status:         status,
		ApprovedAmount: req.ApprovedAmount,
	})
	if err != nil {
		return err
	}
	return c.JSON(updated)
}
