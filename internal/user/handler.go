package user

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes user endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	UID            string `json:"uid"`
	Username       string `json:"username"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
}

// Register stores a new applicant.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	created, err := h.service.Register(c.UserContext(), RegisterInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(created)
}

// Get fetches a user by UID.
func (h *Handler) Get(c *fiber.Ctx) error {
	u, err := h.service.GetByUID(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	if u == nil {
		return fiber.NewError(http.StatusNotFound, "user not found")
	}
	return c.JSON(u)
}

// CheckCredentials reports which registration credentials are already taken.
func (h *Handler) CheckCredentials(c *fiber.Ctx) error {
	check, err := h.service.CheckCredentials(c.UserContext(),
		c.Query("document"), c.Query("phone"), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(check)
}

type profileRequest struct {
	PersonalInfo     PersonalInfo     `json:"personalInfo"`
	ProfessionalInfo ProfessionalInfo `json:"professionalInfo"`
}

// UpdateProfile replaces the applicant's profile sub-documents.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.service.UpdateProfile(c.UserContext(), c.Params("uid"), req.PersonalInfo, req.ProfessionalInfo)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// UpdateBankAccount replaces the applicant's disbursement account.
func (h *Handler) UpdateBankAccount(c *fiber.Ctx) error {
	var req BankAccount
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.service.UpdateBankAccount(c.UserContext(), c.Params("uid"), req)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}
