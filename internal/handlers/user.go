package handlers

import (
	"giftwise/internal/services/user"
	"giftwise/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	me, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to load profile")
	}
	return response.Success(c, "Profile", fiber.Map{
		"id":     me.ID,
		"email":  me.Email,
		"name":   me.Name,
		"phone":  me.Phone,
		"role":   me.Role,
		"status": me.Status,
	})
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if err := h.userService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "Password changed", nil)
}
