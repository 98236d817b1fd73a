package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Chucky-Funds/earnova/dto"
	"github.com/Chucky-Funds/earnova/shared"
)

type TaskHandler struct {
	taskSvc TaskServiceInterface
}

func NewTaskHandler(taskSvc TaskServiceInterface) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

func (h *TaskHandler) VideoPool(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, http.StatusOK, "Success", h.taskSvc.VideoPool())
}

func (h *TaskHandler) SurveyPool(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, http.StatusOK, "Success", h.taskSvc.SurveyPool())
}

func (h *TaskHandler) WebsitePool(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, http.StatusOK, "Success", h.taskSvc.WebsitePool())
}

// ReportDuration records a player-measured video length so the reward can
// be sized from it instead of the fallback rotation.
func (h *TaskHandler) ReportDuration(c *fiber.Ctx) error {
	var req dto.ReportDurationRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.taskSvc.ReportVideoDuration(req.TaskID, req.DurationMinutes); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Duration recorded", nil)
}

func (h *TaskHandler) CompleteVideo(c *fiber.Ctx) error {
	resp, err := h.taskSvc.CompleteVideo(c.Params("id"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Video completed", resp)
}

func (h *TaskHandler) CompleteSurvey(c *fiber.Ctx) error {
	var req dto.CompleteSurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	req.TaskID = c.Params("id")

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.taskSvc.CompleteSurvey(req.TaskID, req.Answers)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Survey completed", resp)
}

func (h *TaskHandler) StartVisit(c *fiber.Ctx) error {
	resp, err := h.taskSvc.StartWebsiteVisit(c.Params("id"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusCreated, "Visit started", resp)
}

func (h *TaskHandler) FinishVisit(c *fiber.Ctx) error {
	resp, err := h.taskSvc.FinishWebsiteVisit()
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Website visit completed", resp)
}

func (h *TaskHandler) CancelVisit(c *fiber.Ctx) error {
	if err := h.taskSvc.CancelWebsiteVisit(); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Visit cancelled", nil)
}
