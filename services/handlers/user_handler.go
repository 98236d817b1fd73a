package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/model"
	"github.com/Chucky-Funds/earnova/shared"
)

type UserHandler struct {
	accountSvc     AccountServiceInterface
	progressionSvc ProgressionServiceInterface
	ledgerSvc      LedgerServiceInterface
	quotaSvc       QuotaServiceInterface
}

func NewUserHandler(accountSvc AccountServiceInterface, progressionSvc ProgressionServiceInterface, ledgerSvc LedgerServiceInterface, quotaSvc QuotaServiceInterface) *UserHandler {
	return &UserHandler{
		accountSvc:     accountSvc,
		progressionSvc: progressionSvc,
		ledgerSvc:      ledgerSvc,
		quotaSvc:       quotaSvc,
	}
}

func currentEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(shared.UserEmail).(string)
	return email
}

// Dashboard bundles balance, progression and today's quota usage into the
// single payload the home screen renders from.
func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	snap := h.progressionSvc.Snapshot()

	quotas := make([]dto.QuotaEntry, 0, 3)
	for _, t := range []model.TaskType{model.TaskVideo, model.TaskSurvey, model.TaskWebsite} {
		quotas = append(quotas, dto.QuotaEntry{
			Type:  string(t),
			Used:  h.quotaSvc.CurrentCount(t),
			Limit: model.DailyLimit(t, snap.XPLevel),
		})
	}

	resp := dto.DashboardResponse{
		Balance:        h.ledgerSvc.Balance().String(),
		CompletedCount: h.ledgerSvc.CompletedCount(),
		XP:             snap.XP,
		Level:          snap.XPLevel,
		PaidLevel:      snap.PaidLevel,
		EffectiveLevel: snap.EffectiveLevel,
		NextLevelXP:    snap.NextLevelXP,
		LevelProgress:  snap.LevelProgress,
		CanWithdraw:    snap.EffectiveLevel >= 5,
		Quotas:         quotas,
		ResetsIn:       h.quotaSvc.ResetCountdown(),
		QuotaEpoch:     h.quotaSvc.Generation(),
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.accountSvc.Profile(currentEmail(c))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", profile)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.accountSvc.UpdateProfile(currentEmail(c), req); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Profile updated", nil)
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.accountSvc.ChangePassword(currentEmail(c), req); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Password changed", nil)
}

func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.accountSvc.DeleteAccount(currentEmail(c)); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Account deleted", nil)
}

// UpgradeEligibility reports whether the next paid level is purchasable.
func (h *UserHandler) UpgradeEligibility(c *fiber.Ctx) error {
	snap := h.progressionSvc.Snapshot()
	ok, reason := h.progressionSvc.CanUpgrade()

	return shared.ResponseJSON(c, http.StatusOK, "Success", dto.UpgradeEligibilityResponse{
		CanUpgrade:     ok,
		Reason:         reason,
		CurrentPaid:    snap.PaidLevel,
		XPLevel:        snap.XPLevel,
		EffectiveLevel: snap.EffectiveLevel,
		Fee:            h.progressionSvc.UpgradeFee().String(),
	})
}

// RequestUpgrade opens a level-up payment intent.
func (h *UserHandler) RequestUpgrade(c *fiber.Ctx) error {
	intent, err := h.progressionSvc.RequestUpgrade(currentEmail(c))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusCreated, "Complete payment to upgrade", intentResponse(intent))
}
