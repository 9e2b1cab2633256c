package handlers

import (
	"errors"
	"log"

	"giftwise/internal/models"
	"giftwise/internal/repositories"
	"giftwise/internal/services/auth"
	"giftwise/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// extractUserClaims is a helper shared by the authenticated handlers.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	// Role is never client-controlled on the public route.
	input.Role = "user"

	newUser, err := h.authService.Register(c.Context(), &input)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return response.Error(c, fiber.StatusConflict, "Email already registered")
		}
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, "Account created", fiber.Map{
		"id":    newUser.ID,
		"email": newUser.Email,
		"name":  newUser.Name,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	loggedIn, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":    loggedIn.ID,
			"email": loggedIn.Email,
			"name":  loggedIn.Name,
			"role":  loggedIn.Role,
		},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	accessToken, refreshToken, err := h.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	return response.Success(c, "Tokens refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.Logout(claims.UserID); err != nil {
		log.Printf("Logout failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Logout failed")
	}
	return response.Success(c, "Logged out", nil)
}
