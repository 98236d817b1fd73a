package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

type AuthHandler struct {
	accountSvc     AccountServiceInterface
	paymentSvc     PaymentServiceInterface
	progressionSvc ProgressionServiceInterface
}

func NewAuthHandler(accountSvc AccountServiceInterface, paymentSvc PaymentServiceInterface, progressionSvc ProgressionServiceInterface) *AuthHandler {
	return &AuthHandler{
		accountSvc:     accountSvc,
		paymentSvc:     paymentSvc,
		progressionSvc: progressionSvc,
	}
}

// Register stores a pending account and returns the signup payment intent
// the client must complete before the account can log in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	intent, err := h.accountSvc.Register(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Account registered, complete payment to activate", intentResponse(intent))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.accountSvc.Login(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.accountSvc.Logout()
	return shared.ResponseJSON(c, http.StatusOK, "Logged out successfully", nil)
}

// CompletePayment settles a pending intent. The intent's purpose decides
// what completing it means: activating a signup or raising the paid level.
func (h *AuthHandler) CompletePayment(c *fiber.Ctx) error {
	var req dto.CompletePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	intent, ok := h.paymentSvc.Take(c.Params("id"))
	if !ok {
		return shared.NewNotFoundError(nil, "payment intent not found or already settled")
	}

	switch intent.Purpose {
	case model.PaymentPurposeSignup:
		if err := h.accountSvc.CompleteSignup(intent, req.Reference); err != nil {
			return err
		}
		return shared.ResponseJSON(c, http.StatusOK, "Signup payment completed", nil)

	case model.PaymentPurposeLevelUp:
		newLevel, err := h.progressionSvc.CompleteUpgrade(intent, req.Reference)
		if err != nil {
			return err
		}
		return shared.ResponseJSON(c, http.StatusOK, "Level upgrade completed", fiber.Map{"paid_level": newLevel})
	}

	return shared.NewBadRequestError(nil, "unknown payment purpose")
}

// CancelPayment abandons a pending intent. A cancelled signup discards the
// pending account; a cancelled upgrade leaves the level untouched.
func (h *AuthHandler) CancelPayment(c *fiber.Ctx) error {
	intent, ok := h.paymentSvc.Cancel(c.Params("id"))
	if !ok {
		return shared.NewNotFoundError(nil, "payment intent not found or already settled")
	}

	if intent.Purpose == model.PaymentPurposeSignup {
		h.accountSvc.DiscardPending(intent)
	}

	return shared.ResponseJSON(c, http.StatusOK, "Payment cancelled", nil)
}
