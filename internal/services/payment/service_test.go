package payment

import (
	"context"
	"errors"
	"testing"

	"giftwise/internal/models"
	"giftwise/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCharger struct{ mock.Mock }
type MockLedger struct{ mock.Mock }

func TestTopUp(t *testing.T) {
	t.Run("charges the card and deposits the amount", func(t *testing.T) {
		charger := new(MockCharger)
		ledgerSvc := new(MockLedger)

		charger.On("Charge", mock.Anything, int64(2550), "usd", "tok_visa", mock.Anything).
			Return("ch_abc123", nil)
		ledgerSvc.On("Deposit", mock.Anything, uint(7), 25.50, "ch_abc123").
			Return(&models.Transaction{Reference: "ch_abc123", Amount: 25.50}, nil)

		tx, err := NewService(ledgerSvc, charger).
			TopUp(context.Background(), 7, 25.50, "usd", "tok_visa")

		assert.NoError(t, err)
		assert.Equal(t, "ch_abc123", tx.Reference)
		charger.AssertExpectations(t)
		ledgerSvc.AssertExpectations(t)
	})

	t.Run("rejects non-positive amounts before charging", func(t *testing.T) {
		charger := new(MockCharger)
		ledgerSvc := new(MockLedger)

		_, err := NewService(ledgerSvc, charger).
			TopUp(context.Background(), 7, 0, "usd", "tok_visa")

		assert.ErrorIs(t, err, ErrInvalidAmount)
		charger.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		_, err := NewService(new(MockLedger), new(MockCharger)).
			TopUp(context.Background(), 7, 10, "usd", "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("declined charge leaves the wallet untouched", func(t *testing.T) {
		charger := new(MockCharger)
		ledgerSvc := new(MockLedger)

		charger.On("Charge", mock.Anything, int64(1000), "usd", "tok_declined", mock.Anything).
			Return("", errors.New("card_declined"))

		_, err := NewService(ledgerSvc, charger).
			TopUp(context.Background(), 7, 10, "usd", "tok_declined")

		assert.ErrorIs(t, err, ErrChargeFailed)
		ledgerSvc.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deposit failure after a charge surfaces the charge id", func(t *testing.T) {
		charger := new(MockCharger)
		ledgerSvc := new(MockLedger)

		charger.On("Charge", mock.Anything, int64(1000), "usd", "tok_visa", mock.Anything).
			Return("ch_orphan", nil)
		ledgerSvc.On("Deposit", mock.Anything, uint(7), 10.0, "ch_orphan").
			Return(nil, errors.New("db down"))

		_, err := NewService(ledgerSvc, charger).
			TopUp(context.Background(), 7, 10, "usd", "tok_visa")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ch_orphan")
	})
}

// Mock implementations

func (m *MockCharger) Charge(ctx context.Context, amountCents int64, currency, token, description string) (string, error) {
	args := m.Called(ctx, amountCents, currency, token, description)
	return args.String(0), args.Error(1)
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
