package models

import "time"

// Gift schedule statuses
const (
	ScheduleStatusActive    = "active"
	ScheduleStatusReserved  = "reserved"
	ScheduleStatusOrdered   = "ordered"
	ScheduleStatusCancelled = "cancelled"
)

// GiftSchedule is a standing instruction to buy a gift for a
// recipient's occasion. The scheduler picks it up once the occasion
// falls within LeadDays, reserves funds and places the order.
type GiftSchedule struct {
	ID           uint    `gorm:"primarykey"`
	UserID       uint    `gorm:"index;not null"`
	RecipientID  uint    `gorm:"index;not null"`
	OccasionID   uint    `gorm:"index;not null"`
	ProductID    string  `gorm:"not null"` // catalog product handle
	Budget       float64 `gorm:"not null"` // gift price cap, before service fee
	LeadDays     int     `gorm:"default:7"`
	Status       string  `gorm:"not null;default:'active'"`
	OrderRef     string  // catalog order reference once placed
	DeliveryDate string  // "YYYY-MM-DD" expected delivery, set on order
	Metadata     JSON    `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
