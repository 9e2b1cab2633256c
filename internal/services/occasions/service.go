// Package occasions builds the upcoming-occasions feed and converts
// recipient data to and from contact/calendar interchange formats.
package occasions

import (
	"context"
	"fmt"
	"sort"

	"giftwise/internal/dates"
	"giftwise/internal/models"
	"giftwise/internal/repositories"
)

type service struct {
	recipients repositories.RecipientRepository
	engine     *dates.Engine
}

// NewService creates an occasions service.
func NewService(recipients repositories.RecipientRepository, engine *dates.Engine) Service {
	if recipients == nil {
		panic("recipient repository is required")
	}
	if engine == nil {
		engine = dates.NewEngine(nil)
	}
	return &service{
		recipients: recipients,
		engine:     engine,
	}
}

func (s *service) Upcoming(ctx context.Context, userID uint, withinDays int) ([]UpcomingOccasion, error) {
	recipients, err := s.recipients.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	feed := make([]UpcomingOccasion, 0)
	for _, recipient := range recipients {
		for _, occasion := range recipient.Occasions {
			if withinDays > 0 && !s.engine.IsWithinDays(occasion.Date, withinDays) {
				continue
			}
			feed = append(feed, s.buildEntry(recipient, occasion))
		}
	}

	sort.Slice(feed, func(i, j int) bool {
		if feed[i].DaysUntil != feed[j].DaysUntil {
			return feed[i].DaysUntil < feed[j].DaysUntil
		}
		return feed[i].RecipientName < feed[j].RecipientName
	})
	return feed, nil
}

func (s *service) buildEntry(recipient models.Recipient, occasion models.Occasion) UpcomingOccasion {
	return UpcomingOccasion{
		RecipientID:   recipient.ID,
		RecipientName: recipient.Name,
		OccasionID:    occasion.ID,
		Kind:          occasion.Kind,
		Label:         occasion.Label,
		Date:          occasion.Date,
		NextDate:      s.engine.NextOccurrence(occasion.Date).String(),
		DaysUntil:     s.engine.DaysUntil(occasion.Date),
		IsToday:       s.engine.IsToday(occasion.Date),
		Display:       s.engine.FormatOccasionDate(occasion.Date),
		DisplayLong:   s.engine.FormatOccasionDateLong(occasion.Date),
	}
}
