package occasions

import (
	"context"
	"io"
)

// UpcomingOccasion is one row of the upcoming-occasions feed.
type UpcomingOccasion struct {
	RecipientID   uint   `json:"recipient_id"`
	RecipientName string `json:"recipient_name"`
	OccasionID    uint   `json:"occasion_id"`
	Kind          string `json:"kind"`
	Label         string `json:"label,omitempty"`
	Date          string `json:"date"`
	NextDate      string `json:"next_date"`
	DaysUntil     int    `json:"days_until"`
	IsToday       bool   `json:"is_today"`
	Display       string `json:"display"`      // "Jun 15"
	DisplayLong   string `json:"display_long"` // "June 15, 1990"
}

// ImportResult summarizes a vCard contact import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Service exposes recipient occasion feeds and contact import/export.
type Service interface {
	// Upcoming lists a user's occasions ordered by proximity. withinDays
	// limits the horizon; zero or negative means no limit.
	Upcoming(ctx context.Context, userID uint, withinDays int) ([]UpcomingOccasion, error)

	// ExportCalendar renders the user's occasions as an iCalendar feed.
	ExportCalendar(ctx context.Context, userID uint) ([]byte, error)

	// ImportVCard creates recipients (with birthday occasions) from a
	// vCard stream. Cards without a name or birthday are skipped.
	ImportVCard(ctx context.Context, userID uint, r io.Reader) (*ImportResult, error)
}
