package ledger

import (
	"context"

	"giftwise/internal/models"
)

// Service defines the gift wallet ledger interface.
type Service interface {
	// Wallet management
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error)

	// Balance view
	AvailableBalance(ctx context.Context, userID uint) BalanceView

	// State transitions
	Deposit(ctx context.Context, userID uint, amount float64, reference string) (*models.Transaction, error)
	Reserve(ctx context.Context, userID uint, amount float64, scheduleID *uint, description string) (*models.Transaction, error)
	Settle(ctx context.Context, reference string) error
	Release(ctx context.Context, reference string) error

	// History
	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)
}
