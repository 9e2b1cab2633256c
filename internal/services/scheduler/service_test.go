package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"giftwise/internal/dates"
	"giftwise/internal/models"
	"giftwise/internal/services/catalog"
	"giftwise/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSchedules struct{ mock.Mock }
type MockRecipients struct{ mock.Mock }
type MockLedger struct{ mock.Mock }
type MockCatalog struct{ mock.Mock }
type MockNotifier struct{ mock.Mock }

func fixedEngine() *dates.Engine {
	return dates.NewEngine(dates.FixedClock(
		time.Date(2024, time.June, 15, 6, 0, 0, 0, time.UTC)))
}

func newTestService(schedules *MockSchedules, recipients *MockRecipients,
	ledgerSvc *MockLedger, catalogSvc *MockCatalog, notifier *MockNotifier) *Service {
	return NewService(schedules, recipients, ledgerSvc, catalogSvc, notifier, fixedEngine(), "")
}

func dueSchedule() models.GiftSchedule {
	return models.GiftSchedule{
		ID:          1,
		UserID:      7,
		RecipientID: 3,
		OccasionID:  10,
		ProductID:   "mug-01",
		Budget:      60,
		LeadDays:    7,
		Status:      models.ScheduleStatusActive,
	}
}

func TestRunOnce(t *testing.T) {
	dueOccasion := &models.Occasion{ID: 10, RecipientID: 3, Kind: models.OccasionKindBirthday, Date: "1990-06-18"}
	product := &catalog.Product{ID: "mug-01", Title: "Ceramic Mug", Price: 50, Currency: "USD", Available: true}

	t.Run("orders a due schedule and settles the hold", func(t *testing.T) {
		schedules := new(MockSchedules)
		recipients := new(MockRecipients)
		ledgerSvc := new(MockLedger)
		catalogSvc := new(MockCatalog)
		notifier := new(MockNotifier)

		schedules.On("ListByStatus", mock.Anything, models.ScheduleStatusActive).
			Return([]models.GiftSchedule{dueSchedule()}, nil)
		recipients.On("GetOccasion", uint(10)).Return(dueOccasion, nil)
		catalogSvc.On("GetProduct", mock.Anything, "mug-01").Return(product, nil)
		ledgerSvc.On("AvailableBalance", mock.Anything, uint(7)).
			Return(ledger.BalanceView{Available: 100, StoredBalance: 100})
		ledgerSvc.On("Reserve", mock.Anything, uint(7), 57.0, mock.Anything, mock.Anything).
			Return(&models.Transaction{Reference: "hold-1"}, nil)
		schedules.On("UpdateStatus", uint(1), models.ScheduleStatusReserved).Return(nil)
		recipients.On("GetByID", uint(3)).Return(&models.Recipient{ID: 3, Name: "Alice"}, nil)
		catalogSvc.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(req catalog.OrderRequest) bool {
			return req.ProductID == "mug-01" && req.RecipientName == "Alice"
		})).Return(&catalog.Order{Reference: "ord_123", DeliveryDate: "2024-06-17"}, nil)
		ledgerSvc.On("Settle", mock.Anything, "hold-1").Return(nil)
		schedules.On("Update", mock.MatchedBy(func(s *models.GiftSchedule) bool {
			return s.Status == models.ScheduleStatusOrdered &&
				s.OrderRef == "ord_123" && s.DeliveryDate == "2024-06-17"
		})).Return(nil)
		notifier.On("Notify", mock.Anything, uint(7), "Gift ordered", mock.Anything).Return(nil)

		report, err := newTestService(schedules, recipients, ledgerSvc, catalogSvc, notifier).
			RunOnce(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Ordered)
		assert.Equal(t, 0, report.Failed)
		schedules.AssertExpectations(t)
		ledgerSvc.AssertExpectations(t)
		catalogSvc.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("skips schedules outside the lead window", func(t *testing.T) {
		schedules := new(MockSchedules)
		recipients := new(MockRecipients)
		ledgerSvc := new(MockLedger)
		catalogSvc := new(MockCatalog)
		notifier := new(MockNotifier)

		schedules.On("ListByStatus", mock.Anything, models.ScheduleStatusActive).
			Return([]models.GiftSchedule{dueSchedule()}, nil)
		recipients.On("GetOccasion", uint(10)).
			Return(&models.Occasion{ID: 10, Date: "1990-09-01"}, nil)

		report, err := newTestService(schedules, recipients, ledgerSvc, catalogSvc, notifier).
			RunOnce(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
		ledgerSvc.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient funds notifies without reserving", func(t *testing.T) {
		schedules := new(MockSchedules)
		recipients := new(MockRecipients)
		ledgerSvc := new(MockLedger)
		catalogSvc := new(MockCatalog)
		notifier := new(MockNotifier)

		schedules.On("ListByStatus", mock.Anything, models.ScheduleStatusActive).
			Return([]models.GiftSchedule{dueSchedule()}, nil)
		recipients.On("GetOccasion", uint(10)).Return(dueOccasion, nil)
		catalogSvc.On("GetProduct", mock.Anything, "mug-01").Return(product, nil)
		ledgerSvc.On("AvailableBalance", mock.Anything, uint(7)).
			Return(ledger.BalanceView{Available: 30, StoredBalance: 100, PendingHolds: 70})
		notifier.On("Notify", mock.Anything, uint(7), "Insufficient funds for scheduled gift", mock.Anything).
			Return(nil)

		report, err := newTestService(schedules, recipients, ledgerSvc, catalogSvc, notifier).
			RunOnce(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		ledgerSvc.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifier.AssertExpectations(t)
	})

	t.Run("degraded balance defers without notifying", func(t *testing.T) {
		schedules := new(MockSchedules)
		recipients := new(MockRecipients)
		ledgerSvc := new(MockLedger)
		catalogSvc := new(MockCatalog)
		notifier := new(MockNotifier)

		schedules.On("ListByStatus", mock.Anything, models.ScheduleStatusActive).
			Return([]models.GiftSchedule{dueSchedule()}, nil)
		recipients.On("GetOccasion", uint(10)).Return(dueOccasion, nil)
		catalogSvc.On("GetProduct", mock.Anything, "mug-01").Return(product, nil)
		ledgerSvc.On("AvailableBalance", mock.Anything, uint(7)).
			Return(ledger.BalanceView{Degraded: true})

		report, err := newTestService(schedules, recipients, ledgerSvc, catalogSvc, notifier).
			RunOnce(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		ledgerSvc.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed order releases the hold and reactivates", func(t *testing.T) {
		schedules := new(MockSchedules)
		recipients := new(MockRecipients)
		ledgerSvc := new(MockLedger)
		catalogSvc := new(MockCatalog)
		notifier := new(MockNotifier)

		schedules.On("ListByStatus", mock.Anything, models.ScheduleStatusActive).
			Return([]models.GiftSchedule{dueSchedule()}, nil)
		recipients.On("GetOccasion", uint(10)).Return(dueOccasion, nil)
		catalogSvc.On("GetProduct", mock.Anything, "mug-01").Return(product, nil)
		ledgerSvc.On("AvailableBalance", mock.Anything, uint(7)).
			Return(ledger.BalanceView{Available: 100, StoredBalance: 100})
		ledgerSvc.On("Reserve", mock.Anything, uint(7), 57.0, mock.Anything, mock.Anything).
			Return(&models.Transaction{Reference: "hold-1"}, nil)
		schedules.On("UpdateStatus", uint(1), models.ScheduleStatusReserved).Return(nil)
		recipients.On("GetByID", uint(3)).Return(&models.Recipient{ID: 3, Name: "Alice"}, nil)
		catalogSvc.On("PlaceOrder", mock.Anything, mock.Anything).
			Return(nil, catalog.ErrOrderRejected)
		ledgerSvc.On("Release", mock.Anything, "hold-1").Return(nil)
		schedules.On("UpdateStatus", uint(1), models.ScheduleStatusActive).Return(nil)

		report, err := newTestService(schedules, recipients, ledgerSvc, catalogSvc, notifier).
			RunOnce(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		ledgerSvc.AssertCalled(t, "Release", mock.Anything, "hold-1")
		ledgerSvc.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything)
		schedules.AssertCalled(t, "UpdateStatus", uint(1), models.ScheduleStatusActive)
	})

	t.Run("list failure is fatal to the run", func(t *testing.T) {
		schedules := new(MockSchedules)
		schedules.On("ListByStatus", mock.Anything, models.ScheduleStatusActive).
			Return(nil, errors.New("db down"))

		_, err := newTestService(schedules, new(MockRecipients), new(MockLedger),
			new(MockCatalog), new(MockNotifier)).RunOnce(context.Background())

		assert.Error(t, err)
	})
}

// Mock implementations

func (m *MockSchedules) Create(schedule *models.GiftSchedule) error {
	return m.Called(schedule).Error(0)
}

func (m *MockSchedules) GetByID(id uint) (*models.GiftSchedule, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GiftSchedule), args.Error(1)
}

func (m *MockSchedules) ListByUser(ctx context.Context, userID uint) ([]models.GiftSchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GiftSchedule), args.Error(1)
}

func (m *MockSchedules) ListByStatus(ctx context.Context, status string) ([]models.GiftSchedule, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GiftSchedule), args.Error(1)
}

func (m *MockSchedules) Update(schedule *models.GiftSchedule) error {
	return m.Called(schedule).Error(0)
}

func (m *MockSchedules) UpdateStatus(id uint, status string) error {
	return m.Called(id, status).Error(0)
}

func (m *MockSchedules) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockRecipients) Create(recipient *models.Recipient) error {
	return m.Called(recipient).Error(0)
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
	return m.Called(recipient).Error(0)
}

func (m *MockRecipients) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockRecipients) AddOccasion(occasion *models.Occasion) error {
	return m.Called(occasion).Error(0)
}

func (m *MockRecipients) GetOccasion(id uint) (*models.Occasion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Occasion), args.Error(1)
}

func (m *MockRecipients) DeleteOccasion(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockLedger) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockLedger) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockLedger) AvailableBalance(ctx context.Context, userID uint) ledger.BalanceView {
	args := m.Called(ctx, userID)
	return args.Get(0).(ledger.BalanceView)
}

func (m *MockLedger) Deposit(ctx context.Context, userID uint, amount float64, reference string) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) Reserve(ctx context.Context, userID uint, amount float64, scheduleID *uint, description string) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, scheduleID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedger) Settle(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

func (m *MockLedger) Release(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

func (m *MockLedger) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockCatalog) GetProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalog) PlaceOrder(ctx context.Context, req catalog.OrderRequest) (*catalog.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Order), args.Error(1)
}

func (m *MockNotifier) Notify(ctx context.Context, userID uint, subject, body string) error {
	return m.Called(ctx, userID, subject, body).Error(0)
}
