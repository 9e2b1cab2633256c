package repositories

import (
	"context"
	"errors"

	"giftwise/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// WalletRepository defines the interface for wallet-related database operations
type WalletRepository interface {
	// Core wallet operations
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByUserID(userID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error

	// Transaction operations
	CreateTransaction(tx *models.Transaction) error
	GetTransactionByID(id uint) (*models.Transaction, error)
	GetTransactionByReference(ref string) (*models.Transaction, error)
	UpdateTransaction(tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error)

	// PendingReservations returns the user's reservation transactions
	// still in pending status; the ledger derives available balance
	// from them.
	PendingReservations(ctx context.Context, userID uint) ([]models.Transaction, error)

	// Batch operations
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
