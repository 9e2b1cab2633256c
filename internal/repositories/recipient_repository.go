package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"giftwise/internal/models"
	"giftwise/internal/repositories/cache"

	"gorm.io/gorm"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrOccasionNotFound  = errors.New("occasion not found")
)

// RecipientRepository defines database operations for recipients and
// their occasions.
type RecipientRepository interface {
	Create(recipient *models.Recipient) error
	GetByID(id uint) (*models.Recipient, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Recipient, error)
	Update(recipient *models.Recipient) error
	Delete(id uint) error

	AddOccasion(occasion *models.Occasion) error
	GetOccasion(id uint) (*models.Occasion, error)
	DeleteOccasion(id uint) error
}

type recipientRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewRecipientRepository(db *gorm.DB, cache *cache.CacheService) RecipientRepository {
	return &recipientRepository{db: db, cache: cache}
}

func (r *recipientRepository) Create(recipient *models.Recipient) error {
	if result := r.db.Create(recipient); result.Error != nil {
		return fmt.Errorf("failed to create recipient: %w", result.Error)
	}
	r.invalidate(recipient.UserID)
	return nil
}

func (r *recipientRepository) GetByID(id uint) (*models.Recipient, error) {
	var recipient models.Recipient
	if err := r.db.Preload("Occasions").First(&recipient, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	return &recipient, nil
}

func (r *recipientRepository) ListByUser(ctx context.Context, userID uint) ([]models.Recipient, error) {
	if recipients, err := r.cache.GetRecipients(ctx, userID); err == nil {
		return recipients, nil
	}

	var recipients []models.Recipient
	err := r.db.WithContext(ctx).
		Preload("Occasions").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&recipients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}

	if err := r.cache.CacheRecipients(ctx, userID, recipients); err != nil {
		log.Printf("Failed to cache recipients for user %d: %v", userID, err)
	}
	return recipients, nil
}

func (r *recipientRepository) Update(recipient *models.Recipient) error {
	if result := r.db.Save(recipient); result.Error != nil {
		return fmt.Errorf("failed to update recipient: %w", result.Error)
	}
	r.invalidate(recipient.UserID)
	return nil
}

func (r *recipientRepository) Delete(id uint) error {
	recipient, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if result := r.db.Select("Occasions").Delete(recipient); result.Error != nil {
		return fmt.Errorf("failed to delete recipient: %w", result.Error)
	}
	r.invalidate(recipient.UserID)
	return nil
}

func (r *recipientRepository) AddOccasion(occasion *models.Occasion) error {
	recipient, err := r.GetByID(occasion.RecipientID)
	if err != nil {
		return err
	}
	if result := r.db.Create(occasion); result.Error != nil {
		return fmt.Errorf("failed to create occasion: %w", result.Error)
	}
	r.invalidate(recipient.UserID)
	return nil
}

func (r *recipientRepository) GetOccasion(id uint) (*models.Occasion, error) {
	var occasion models.Occasion
	if err := r.db.First(&occasion, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOccasionNotFound
		}
		return nil, fmt.Errorf("failed to get occasion: %w", err)
	}
	return &occasion, nil
}

func (r *recipientRepository) DeleteOccasion(id uint) error {
	occasion, err := r.GetOccasion(id)
	if err != nil {
		return err
	}
	recipient, err := r.GetByID(occasion.RecipientID)
	if err != nil {
		return err
	}
	if result := r.db.Delete(occasion); result.Error != nil {
		return fmt.Errorf("failed to delete occasion: %w", result.Error)
	}
	r.invalidate(recipient.UserID)
	return nil
}

func (r *recipientRepository) invalidate(userID uint) {
	if err := r.cache.InvalidateRecipients(context.Background(), userID); err != nil {
		log.Printf("Failed to invalidate recipients cache for user %d: %v", userID, err)
	}
}
