package occasions

import (
	"context"
	"strings"
	"testing"
	"time"

	"giftwise/internal/dates"
	"giftwise/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRecipients struct {
	mock.Mock
}

func fixedEngine() *dates.Engine {
	return dates.NewEngine(dates.FixedClock(
		time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)))
}

func TestUpcoming(t *testing.T) {
	recipients := []models.Recipient{
		{
			ID: 1, UserID: 7, Name: "Alice",
			Occasions: []models.Occasion{
				{ID: 10, RecipientID: 1, Kind: models.OccasionKindBirthday, Date: "1990-06-20"},
			},
		},
		{
			ID: 2, UserID: 7, Name: "Bob",
			Occasions: []models.Occasion{
				{ID: 20, RecipientID: 2, Kind: models.OccasionKindBirthday, Date: "1985-06-15"},
				{ID: 21, RecipientID: 2, Kind: models.OccasionKindAnniversary, Date: "2010-09-01"},
			},
		},
	}

	t.Run("sorted by proximity with today first", func(t *testing.T) {
		repo := new(MockRecipients)
		repo.On("ListByUser", mock.Anything, uint(7)).Return(recipients, nil)

		s := NewService(repo, fixedEngine())
		feed, err := s.Upcoming(context.Background(), 7, 0)

		assert.NoError(t, err)
		assert.Len(t, feed, 3)

		assert.Equal(t, "Bob", feed[0].RecipientName)
		assert.True(t, feed[0].IsToday)
		assert.Equal(t, 0, feed[0].DaysUntil)

		assert.Equal(t, "Alice", feed[1].RecipientName)
		assert.Equal(t, 5, feed[1].DaysUntil)
		assert.Equal(t, "2024-06-20", feed[1].NextDate)
		assert.Equal(t, "Jun 20", feed[1].Display)
		assert.Equal(t, "June 20, 1990", feed[1].DisplayLong)

		assert.Equal(t, models.OccasionKindAnniversary, feed[2].Kind)
	})

	t.Run("horizon filters distant occasions", func(t *testing.T) {
		repo := new(MockRecipients)
		repo.On("ListByUser", mock.Anything, uint(7)).Return(recipients, nil)

		s := NewService(repo, fixedEngine())
		feed, err := s.Upcoming(context.Background(), 7, 7)

		assert.NoError(t, err)
		assert.Len(t, feed, 2, "anniversary in September is outside the 7 day horizon")
	})
}

func TestImportVCard(t *testing.T) {
	const input = "BEGIN:VCARD\r\n" +
		"VERSION:4.0\r\n" +
		"FN:Alice Example\r\n" +
		"BDAY:1990-06-15\r\n" +
		"END:VCARD\r\n" +
		"BEGIN:VCARD\r\n" +
		"VERSION:4.0\r\n" +
		"FN:No Birthday\r\n" +
		"END:VCARD\r\n" +
		"BEGIN:VCARD\r\n" +
		"VERSION:4.0\r\n" +
		"FN:Truncated\r\n" +
		"BDAY:--02-29\r\n" +
		"END:VCARD\r\n"

	repo := new(MockRecipients)
	repo.On("Create", mock.Anything).Return(nil)

	s := NewService(repo, fixedEngine())
	result, err := s.ImportVCard(context.Background(), 7, strings.NewReader(input))

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	created := repo.Calls[0].Arguments.Get(0).(*models.Recipient)
	assert.Equal(t, uint(7), created.UserID)
	assert.Equal(t, "Alice Example", created.Name)
	assert.Len(t, created.Occasions, 1)
	assert.Equal(t, models.OccasionKindBirthday, created.Occasions[0].Kind)
	assert.Equal(t, "1990-06-15", created.Occasions[0].Date)

	truncated := repo.Calls[1].Arguments.Get(0).(*models.Recipient)
	assert.Equal(t, "2000-02-29", truncated.Occasions[0].Date, "yearless birthdays map to a leap year")
}

func TestParseVCardDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1990-06-15", want: "1990-06-15"},
		{in: "19900615", want: "1990-06-15"},
		{in: "--06-15", want: "2000-06-15"},
		{in: "--0615", want: "2000-06-15"},
		{in: "June 15th", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseVCardDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportCalendar(t *testing.T) {
	t.Run("renders one event per occasion per year", func(t *testing.T) {
		repo := new(MockRecipients)
		repo.On("ListByUser", mock.Anything, uint(7)).Return([]models.Recipient{
			{
				ID: 1, UserID: 7, Name: "Alice",
				Occasions: []models.Occasion{
					{ID: 10, Kind: models.OccasionKindBirthday, Date: "1990-06-20"},
				},
			},
		}, nil)

		s := NewService(repo, fixedEngine())
		data, err := s.ExportCalendar(context.Background(), 7)

		assert.NoError(t, err)
		feed := string(data)
		assert.Contains(t, feed, "BEGIN:VCALENDAR")
		assert.Contains(t, feed, "Alice: birthday")
		assert.Contains(t, feed, "occasion-10-2024@giftwise")
		assert.Contains(t, feed, "occasion-10-2025@giftwise")
	})

	t.Run("empty feed is still a valid calendar", func(t *testing.T) {
		repo := new(MockRecipients)
		repo.On("ListByUser", mock.Anything, uint(7)).Return([]models.Recipient{}, nil)

		s := NewService(repo, fixedEngine())
		data, err := s.ExportCalendar(context.Background(), 7)

		assert.NoError(t, err)
		assert.Contains(t, string(data), "BEGIN:VCALENDAR")
		assert.Contains(t, string(data), "END:VCALENDAR")
	})
}

// Mock implementations

func (m *MockRecipients) Create(recipient *models.Recipient) error {
	args := m.Called(recipient)
	return args.Error(0)
}

func (m *MockRecipients) GetByID(id uint) (*models.Recipient, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipient), args.Error(1)
}

func (m *MockRecipients) ListByUser(ctx context.Context, userID uint) ([]models.Recipient, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipient), args.Error(1)
}

func (m *MockRecipients) Update(recipient *models.Recipient) error {
	args := m.Called(recipient)
	return args.Error(0)
}

func (m *MockRecipients) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRecipients) AddOccasion(occasion *models.Occasion) error {
	args := m.Called(occasion)
	return args.Error(0)
}

func (m *MockRecipients) GetOccasion(id uint) (*models.Occasion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Occasion), args.Error(1)
}

func (m *MockRecipients) DeleteOccasion(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}
