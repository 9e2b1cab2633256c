package models

import (
	"time"
)

// Transaction types
const (
	TransactionTypeDeposit     = "deposit"
	TransactionTypeReservation = "reservation"
	TransactionTypeCharge      = "charge"
	TransactionTypeRefund      = "refund"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
	TransactionStatusFailed    = "failed"
)

// Transaction is a ledger entry against a user's gift wallet. Amounts
// are signed: deposits positive, reservation holds negative. Only
// pending reservations count against available balance.
type Transaction struct {
	ID          uint    `gorm:"primarykey"`
	UserID      uint    `gorm:"index;not null"`
	Type        string  `gorm:"not null"`
	Status      string  `gorm:"not null;default:'pending'"`
	Amount      float64 `gorm:"not null"`
	Description string
	Reference   string `gorm:"uniqueIndex"` // External reference ID
	ScheduleID  *uint  // Optional gift schedule link
	Metadata    JSON   `gorm:"type:jsonb"`
	Currency    string `gorm:"default:'USD'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
