package ledger

import "errors"

// Service errors
var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientFunds     = errors.New("insufficient available balance")
	ErrWalletLocked          = errors.New("wallet is locked")
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrReservationNotPending = errors.New("reservation is not pending")
	ErrTransactionFailed     = errors.New("transaction failed")
)
