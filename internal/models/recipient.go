package models

import "time"

// Occasion kinds
const (
	OccasionKindBirthday    = "birthday"
	OccasionKindAnniversary = "anniversary"
	OccasionKindCustom      = "custom"
)

// Recipient is a person a user schedules gifts for.
type Recipient struct {
	ID           uint   `gorm:"primarykey"`
	UserID       uint   `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Relationship string
	Interests    StringList `gorm:"type:jsonb"`
	Notes        string
	Occasions    []Occasion `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Occasion is a recipient's recurring annual event. Date is the stored
// calendar string "YYYY-MM-DD"; only the month and day recur, the year
// is the historical origin (birth year, wedding year) and may be absent
// semantics-wise.
type Occasion struct {
	ID          uint   `gorm:"primarykey"`
	RecipientID uint   `gorm:"index;not null"`
	Kind        string `gorm:"not null;default:'birthday'"`
	Label       string
	Date        string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
