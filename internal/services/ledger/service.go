package ledger

import (
	"context"
	"fmt"
	"log"
	"math"

	"giftwise/internal/models"
	"giftwise/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	repo    repositories.WalletRepository
	cache   CacheOperator
	config  Config
	metrics MetricsCollector
}

// NewService creates a new ledger service
func NewService(
	repo repositories.WalletRepository,
	cache CacheOperator,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.MaxDepositAmount == 0 {
		config.MaxDepositAmount = DefaultMaxDepositAmount
	}
	if config.MinDepositAmount == 0 {
		config.MinDepositAmount = DefaultMinDepositAmount
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	// Try cache first
	if wallet, err := s.cache.GetWallet(ctx, userID); err == nil {
		return wallet, nil
	}

	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if err := s.cache.CacheWallet(ctx, wallet); err != nil {
		log.Printf("Failed to cache wallet for user %d: %v", userID, err)
	}
	return wallet, nil
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	wallet := &models.Wallet{
		UserID:   userID,
		Balance:  0,
		Status:   StatusActive,
		Currency: currency,
	}

	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if err := s.cache.CacheWallet(ctx, wallet); err != nil {
		log.Printf("Failed to cache wallet for user %d: %v", userID, err)
	}
	return wallet, nil
}

// AvailableBalance computes stored balance minus the sum of pending
// reservation holds. Any fetch failure degrades to zero available
// funds; an unreadable wallet must never look like a funded one. The
// two reads are not transactionally coupled: a reservation created
// between them shows up on the next call.
func (s *service) AvailableBalance(ctx context.Context, userID uint) BalanceView {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		log.Printf("Degraded balance read for user %d: %v", userID, err)
		s.metrics.RecordDegradedRead("available_balance")
		return BalanceView{Degraded: true, Cause: err}
	}

	holds, err := s.repo.PendingReservations(ctx, userID)
	if err != nil {
		log.Printf("Degraded balance read for user %d: %v", userID, err)
		s.metrics.RecordDegradedRead("available_balance")
		return BalanceView{Degraded: true, Cause: err}
	}

	var pending float64
	for _, hold := range holds {
		// Hold amounts are stored signed; a hold always counts against
		// balance regardless of sign convention.
		pending += math.Abs(hold.Amount)
	}

	return BalanceView{
		Available:     wallet.Balance - pending,
		StoredBalance: wallet.Balance,
		PendingHolds:  pending,
	}
}

func (s *service) Deposit(ctx context.Context, userID uint, amount float64, reference string) (*models.Transaction, error) {
	if amount < s.config.MinDepositAmount {
		s.metrics.RecordError("deposit", "invalid_amount")
		return nil, ErrInvalidAmount
	}
	if amount > s.config.MaxDepositAmount {
		s.metrics.RecordError("deposit", "invalid_amount")
		return nil, fmt.Errorf("%w: amount exceeds maximum of %v", ErrInvalidAmount, s.config.MaxDepositAmount)
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Status != StatusActive {
		return nil, ErrWalletLocked
	}

	if reference == "" {
		reference = uuid.NewString()
	}

	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		Status:      models.TransactionStatusCompleted,
		Amount:      amount,
		Reference:   reference,
		Currency:    wallet.Currency,
		Description: "Gift wallet deposit",
	}

	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet.Balance += amount
		if err := tx.Update(wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(txn)
	})
	if err != nil {
		s.metrics.RecordError("deposit", err.Error())
		return nil, ErrTransactionFailed
	}

	s.invalidateWallet(ctx, userID)
	s.metrics.RecordTransaction(models.TransactionTypeDeposit, amount)
	return txn, nil
}

// Reserve places a pending hold against available balance. The stored
// balance does not move until Settle.
func (s *service) Reserve(ctx context.Context, userID uint, amount float64, scheduleID *uint, description string) (*models.Transaction, error) {
	if amount <= 0 {
		s.metrics.RecordError("reserve", "invalid_amount")
		return nil, ErrInvalidAmount
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Status != StatusActive {
		return nil, ErrWalletLocked
	}

	// A degraded view reports zero available funds, which correctly
	// refuses the hold.
	view := s.AvailableBalance(ctx, userID)
	if view.Available < amount {
		s.metrics.RecordError("reserve", "insufficient_funds")
		return nil, ErrInsufficientFunds
	}

	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeReservation,
		Status:      models.TransactionStatusPending,
		Amount:      -amount, // holds are stored negative
		Reference:   uuid.NewString(),
		ScheduleID:  scheduleID,
		Currency:    wallet.Currency,
		Description: description,
	}

	if err := s.repo.CreateTransaction(txn); err != nil {
		s.metrics.RecordError("reserve", err.Error())
		return nil, ErrTransactionFailed
	}

	s.metrics.RecordTransaction(models.TransactionTypeReservation, amount)
	return txn, nil
}

// Settle completes a pending reservation and deducts the held amount
// from the stored balance.
func (s *service) Settle(ctx context.Context, reference string) error {
	txn, err := s.getPendingReservation(reference)
	if err != nil {
		return err
	}

	wallet, err := s.repo.GetByUserID(txn.UserID)
	if err != nil {
		return fmt.Errorf("failed to get wallet: %w", err)
	}

	amount := math.Abs(txn.Amount)
	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet.Balance -= amount
		if err := tx.Update(wallet); err != nil {
			return err
		}
		txn.Status = models.TransactionStatusCompleted
		return tx.UpdateTransaction(txn)
	})
	if err != nil {
		s.metrics.RecordError("settle", err.Error())
		return ErrTransactionFailed
	}

	s.invalidateWallet(ctx, txn.UserID)
	s.metrics.RecordTransaction(models.TransactionTypeCharge, amount)
	return nil
}

// Release cancels a pending reservation; the stored balance is untouched.
func (s *service) Release(ctx context.Context, reference string) error {
	txn, err := s.getPendingReservation(reference)
	if err != nil {
		return err
	}

	txn.Status = models.TransactionStatusCancelled
	if err := s.repo.UpdateTransaction(txn); err != nil {
		s.metrics.RecordError("release", err.Error())
		return ErrTransactionFailed
	}

	s.invalidateWallet(ctx, txn.UserID)
	return nil
}

func (s *service) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	txs, err := s.repo.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

// Helper methods

func (s *service) getPendingReservation(reference string) (*models.Transaction, error) {
	txn, err := s.repo.GetTransactionByReference(reference)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if txn.Type != models.TransactionTypeReservation {
		return nil, ErrReservationNotFound
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, ErrReservationNotPending
	}
	return txn, nil
}

func (s *service) invalidateWallet(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.Printf("Failed to invalidate wallet cache for user %d: %v", userID, err)
	}
}
