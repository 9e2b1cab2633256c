package handlers

import (
	"errors"
	"strconv"

	"giftwise/internal/models"
	"giftwise/internal/repositories"
	"giftwise/internal/services/scheduler"
	"giftwise/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ScheduleHandler struct {
	schedules  repositories.ScheduleRepository
	recipients repositories.RecipientRepository
	pipeline   *scheduler.Service
}

func NewScheduleHandler(schedules repositories.ScheduleRepository,
	recipients repositories.RecipientRepository, pipeline *scheduler.Service) *ScheduleHandler {
	return &ScheduleHandler{
		schedules:  schedules,
		recipients: recipients,
		pipeline:   pipeline,
	}
}

func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	list, err := h.schedules.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to list schedules")
	}
	return response.Success(c, "Schedules", fiber.Map{"schedules": list})
}

func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		RecipientID uint    `json:"recipient_id"`
		OccasionID  uint    `json:"occasion_id"`
		ProductID   string  `json:"product_id"`
		Budget      float64 `json:"budget"`
		LeadDays    int     `json:"lead_days"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.ProductID == "" {
		return response.BadRequest(c, "Product is required")
	}
	if input.Budget <= 0 {
		return response.BadRequest(c, "Budget must be greater than zero")
	}

	// Both the recipient and the occasion must belong to the caller.
	recipient, err := h.recipients.GetByID(input.RecipientID)
	if err != nil || recipient.UserID != claims.UserID {
		return response.NotFound(c, "Recipient not found")
	}
	occasion, err := h.recipients.GetOccasion(input.OccasionID)
	if err != nil || occasion.RecipientID != recipient.ID {
		return response.NotFound(c, "Occasion not found")
	}

	leadDays := input.LeadDays
	if leadDays <= 0 {
		leadDays = 7
	}

	schedule := &models.GiftSchedule{
		UserID:      claims.UserID,
		RecipientID: recipient.ID,
		OccasionID:  occasion.ID,
		ProductID:   input.ProductID,
		Budget:      input.Budget,
		LeadDays:    leadDays,
		Status:      models.ScheduleStatusActive,
	}
	if err := h.schedules.Create(schedule); err != nil {
		return response.ServerError(c, "Failed to create schedule")
	}
	return response.Created(c, "Schedule created", fiber.Map{"schedule": schedule})
}

func (h *ScheduleHandler) Cancel(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid schedule ID")
	}

	schedule, err := h.schedules.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrScheduleNotFound) {
			return response.NotFound(c, "Schedule not found")
		}
		return response.ServerError(c, "Failed to load schedule")
	}
	if schedule.UserID != claims.UserID {
		return response.NotFound(c, "Schedule not found")
	}
	if schedule.Status == models.ScheduleStatusOrdered {
		return response.BadRequest(c, "Order already placed; cancellation is no longer possible")
	}

	if err := h.schedules.UpdateStatus(schedule.ID, models.ScheduleStatusCancelled); err != nil {
		return response.ServerError(c, "Failed to cancel schedule")
	}
	return response.Success(c, "Schedule cancelled", nil)
}

// RunPipeline triggers an immediate pipeline pass. Admin only; the cron
// job covers the normal case.
func (h *ScheduleHandler) RunPipeline(c *fiber.Ctx) error {
	report, err := h.pipeline.RunOnce(c.Context())
	if err != nil {
		return response.ServerError(c, "Pipeline run failed")
	}
	return response.Success(c, "Pipeline run complete", fiber.Map{
		"processed": report.Processed,
		"ordered":   report.Ordered,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	})
}
