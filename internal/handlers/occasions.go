package handlers

import (
	"strconv"

	"giftwise/internal/services/occasions"
	"giftwise/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type OccasionHandler struct {
	occasionService occasions.Service
}

func NewOccasionHandler(occasionService occasions.Service) *OccasionHandler {
	return &OccasionHandler{
		occasionService: occasionService,
	}
}

// Upcoming returns the user's occasions ordered by proximity. The
// within query parameter limits the horizon in days.
func (h *OccasionHandler) Upcoming(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	withinDays, _ := strconv.Atoi(c.Query("within", "0"))
	feed, err := h.occasionService.Upcoming(c.Context(), claims.UserID, withinDays)
	if err != nil {
		return response.ServerError(c, "Failed to load occasions")
	}
	return response.Success(c, "Upcoming occasions", fiber.Map{"occasions": feed})
}

// Calendar serves the user's occasions as an iCalendar feed.
func (h *OccasionHandler) Calendar(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	feed, err := h.occasionService.ExportCalendar(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to build calendar")
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="occasions.ics"`)
	return c.Send(feed)
}
