package occasions

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"giftwise/internal/models"

	"github.com/emersion/go-ical"
)

const icalProdID = "-//Giftwise//Occasions//EN"

// ExportCalendar renders every occasion of the user's recipients as
// all-day events for the current and next year, so subscribed calendar
// apps stay populated between refreshes.
func (s *service) ExportCalendar(ctx context.Context, userID uint) ([]byte, error) {
	recipients, err := s.recipients.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icalProdID)
	cal.Props.SetText("X-WR-CALNAME", "Gift Occasions")
	cal.Props.SetText("CALSCALE", "GREGORIAN")
	cal.Props.SetText("METHOD", "PUBLISH")

	now := time.Now()
	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())

	currentYear := s.engine.Today().Year
	for _, recipient := range recipients {
		for _, occasion := range recipient.Occasions {
			for _, year := range []int{currentYear, currentYear + 1} {
				event := s.buildEvent(recipient, occasion, year)
				event.Props.Set(stamp)
				cal.Children = append(cal.Children, event.Component)
			}
		}
	}

	// An empty VCALENDAR is still a valid feed; clients flag a missing
	// one as broken.
	var buf bytes.Buffer
	if len(cal.Children) == 0 {
		fmt.Fprintf(&buf, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:%s\r\nEND:VCALENDAR\r\n", icalProdID)
		return buf.Bytes(), nil
	}

	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *service) buildEvent(recipient models.Recipient, occasion models.Occasion, year int) *ical.Event {
	stored := s.engine.ParseLocalDate(occasion.Date)
	eventDate := time.Date(year, stored.Month, stored.Day, 0, 0, 0, 0, time.UTC)

	label := occasion.Label
	if label == "" {
		label = occasion.Kind
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID,
		fmt.Sprintf("occasion-%d-%d@giftwise", occasion.ID, year))
	event.Props.SetText(ical.PropSummary,
		fmt.Sprintf("%s: %s", recipient.Name, label))

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(eventDate)
	event.Props.Set(start)

	return event
}
