package ledger

import (
	"context"

	"giftwise/internal/models"
)

// BalanceView is the derived availability of a user's gift wallet.
// Degraded marks the fail-safe path: the backing store could not be
// read and every amount is reported as zero; Cause carries the fetch
// error for logs and tests, never for control flow in handlers.
type BalanceView struct {
	Available     float64 `json:"available"`
	StoredBalance float64 `json:"stored_balance"`
	PendingHolds  float64 `json:"pending_holds"`
	Degraded      bool    `json:"degraded"`
	Cause         error   `json:"-"`
}

// Config holds configuration for ledger operations.
type Config struct {
	DefaultCurrency  string
	MaxDepositAmount float64
	MinDepositAmount float64
}

// CacheOperator defines the caching operations the ledger needs.
// *cache.CacheService satisfies it.
type CacheOperator interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
