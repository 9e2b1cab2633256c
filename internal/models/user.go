package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string  `gorm:"uniqueIndex;not null"`
	Password     string  `gorm:"not null"`
	Name         string  `gorm:"not null"`
	Phone        string  `gorm:"uniqueIndex"`
	Role         string  `gorm:"default:'user'"`
	WalletID     *uint   `gorm:"unique;default:null"`
	Wallet       *Wallet `gorm:"foreignKey:WalletID"`
	Status       string  `gorm:"default:'active'"`
	LastLoginAt  time.Time
	TokenVersion int `gorm:"default:1"`
}

// CreateUserInput is the payload for user registration.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
