package handlers

import (
	"errors"
	"strconv"

	"giftwise/internal/models"
	"giftwise/internal/repositories"
	"giftwise/internal/services/occasions"
	"giftwise/internal/utils/response"
	"giftwise/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type RecipientHandler struct {
	recipients      repositories.RecipientRepository
	occasionService occasions.Service
}

func NewRecipientHandler(recipients repositories.RecipientRepository, occasionService occasions.Service) *RecipientHandler {
	return &RecipientHandler{
		recipients:      recipients,
		occasionService: occasionService,
	}
}

func (h *RecipientHandler) List(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	list, err := h.recipients.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to list recipients")
	}
	return response.Success(c, "Recipients", fiber.Map{"recipients": list})
}

func (h *RecipientHandler) Create(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Name         string   `json:"name"`
		Relationship string   `json:"relationship"`
		Interests    []string `json:"interests"`
		Notes        string   `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	recipient := &models.Recipient{
		UserID:       claims.UserID,
		Name:         input.Name,
		Relationship: input.Relationship,
		Interests:    input.Interests,
		Notes:        input.Notes,
	}
	if err := h.recipients.Create(recipient); err != nil {
		return response.ServerError(c, "Failed to create recipient")
	}
	return response.Created(c, "Recipient created", fiber.Map{"recipient": recipient})
}

func (h *RecipientHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	recipient, err := h.loadOwned(c, claims.UserID)
	if err != nil {
		return err
	}
	return response.Success(c, "Recipient", fiber.Map{"recipient": recipient})
}

func (h *RecipientHandler) Update(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	recipient, err := h.loadOwned(c, claims.UserID)
	if err != nil {
		return err
	}

	var input struct {
		Name         *string   `json:"name"`
		Relationship *string   `json:"relationship"`
		Interests    *[]string `json:"interests"`
		Notes        *string   `json:"notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return response.BadRequest(c, "Name cannot be empty")
		}
		recipient.Name = *input.Name
	}
	if input.Relationship != nil {
		recipient.Relationship = *input.Relationship
	}
	if input.Interests != nil {
		recipient.Interests = *input.Interests
	}
	if input.Notes != nil {
		recipient.Notes = *input.Notes
	}

	if err := h.recipients.Update(recipient); err != nil {
		return response.ServerError(c, "Failed to update recipient")
	}
	return response.Success(c, "Recipient updated", fiber.Map{"recipient": recipient})
}

func (h *RecipientHandler) Delete(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	recipient, err := h.loadOwned(c, claims.UserID)
	if err != nil {
		return err
	}

	if err := h.recipients.Delete(recipient.ID); err != nil {
		return response.ServerError(c, "Failed to delete recipient")
	}
	return response.Success(c, "Recipient deleted", nil)
}

func (h *RecipientHandler) AddOccasion(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	recipient, err := h.loadOwned(c, claims.UserID)
	if err != nil {
		return err
	}

	var input struct {
		Kind  string `json:"kind"`
		Label string `json:"label"`
		Date  string `json:"date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validation.ValidateDateString(input.Date); err != nil {
		return response.BadRequest(c, err.Error())
	}
	if input.Kind == "" {
		input.Kind = models.OccasionKindBirthday
	}

	occasion := &models.Occasion{
		RecipientID: recipient.ID,
		Kind:        input.Kind,
		Label:       input.Label,
		Date:        input.Date,
	}
	if err := h.recipients.AddOccasion(occasion); err != nil {
		return response.ServerError(c, "Failed to add occasion")
	}
	return response.Created(c, "Occasion added", fiber.Map{"occasion": occasion})
}

func (h *RecipientHandler) DeleteOccasion(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	recipient, err := h.loadOwned(c, claims.UserID)
	if err != nil {
		return err
	}

	occasionID, err := strconv.ParseUint(c.Params("occasionID"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid occasion ID")
	}

	occasion, err := h.recipients.GetOccasion(uint(occasionID))
	if err != nil || occasion.RecipientID != recipient.ID {
		return response.NotFound(c, "Occasion not found")
	}

	if err := h.recipients.DeleteOccasion(occasion.ID); err != nil {
		return response.ServerError(c, "Failed to delete occasion")
	}
	return response.Success(c, "Occasion deleted", nil)
}

// ImportContacts creates recipients from an uploaded vCard file.
func (h *RecipientHandler) ImportContacts(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	file, err := c.FormFile("contacts")
	if err != nil {
		return response.BadRequest(c, "A contacts file is required")
	}
	src, err := file.Open()
	if err != nil {
		return response.BadRequest(c, "Could not read the contacts file")
	}
	defer src.Close()

	result, err := h.occasionService.ImportVCard(c.Context(), claims.UserID, src)
	if err != nil {
		return response.ServerError(c, "Contact import failed")
	}
	return response.Success(c, "Contacts imported", fiber.Map{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
}

// loadOwned fetches the :id recipient and enforces ownership. It writes
// the error response itself, so callers just return its error.
func (h *RecipientHandler) loadOwned(c *fiber.Ctx, userID uint) (*models.Recipient, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, response.BadRequest(c, "Invalid recipient ID")
	}

	recipient, err := h.recipients.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrRecipientNotFound) {
			return nil, response.NotFound(c, "Recipient not found")
		}
		return nil, response.ServerError(c, "Failed to load recipient")
	}
	if recipient.UserID != userID {
		return nil, response.NotFound(c, "Recipient not found")
	}
	return recipient, nil
}
