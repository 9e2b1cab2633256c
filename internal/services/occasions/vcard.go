package occasions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"giftwise/internal/models"

	"github.com/emersion/go-vcard"
)

// yearlessFallback stands in for truncated vCard birthdays ("--06-15").
// 2000 is a leap year, so Feb 29 survives the substitution.
const yearlessFallback = 2000

// ImportVCard reads contact cards and creates a recipient with a
// birthday occasion for every card carrying both a name and a parsable
// BDAY. Bad cards are skipped, not fatal; contact exports in the wild
// are messy.
func (s *service) ImportVCard(ctx context.Context, userID uint, r io.Reader) (*ImportResult, error) {
	decoder := vcard.NewDecoder(r)
	result := &ImportResult{}

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("Skipping unreadable vCard entry: %v", err)
			result.Skipped++
			continue
		}

		name := cardName(card)
		bday := card.Value(vcard.FieldBirthday)
		if name == "" || bday == "" {
			result.Skipped++
			continue
		}

		date, err := parseVCardDate(bday)
		if err != nil {
			log.Printf("Skipping contact %q: unparsable birthday %q", name, bday)
			result.Skipped++
			continue
		}

		recipient := &models.Recipient{
			UserID: userID,
			Name:   name,
			Occasions: []models.Occasion{{
				Kind: models.OccasionKindBirthday,
				Date: date,
			}},
		}
		if err := s.recipients.Create(recipient); err != nil {
			return nil, fmt.Errorf("failed to create recipient %q: %w", name, err)
		}
		result.Imported++
	}

	return result, nil
}

// cardName prefers the formatted name, then the structured one.
func cardName(card vcard.Card) string {
	if fn := card.Value(vcard.FieldFormattedName); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		if n.GivenName != "" && n.FamilyName != "" {
			return n.GivenName + " " + n.FamilyName
		}
		if n.GivenName != "" {
			return n.GivenName
		}
		return n.FamilyName
	}
	return ""
}

// parseVCardDate normalizes the BDAY formats seen in contact exports
// to the stored "YYYY-MM-DD" form.
func parseVCardDate(value string) (string, error) {
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	// Truncated forms omit the year (vCard 4.0).
	for _, layout := range []string{"--01-02", "--0102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(yearlessFallback, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
				Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unsupported date format %q", value)
}
