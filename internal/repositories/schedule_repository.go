package repositories

import (
	"context"
	"errors"
	"fmt"

	"giftwise/internal/models"

	"gorm.io/gorm"
)

var ErrScheduleNotFound = errors.New("gift schedule not found")

// ScheduleRepository defines database operations for gift schedules.
type ScheduleRepository interface {
	Create(schedule *models.GiftSchedule) error
	GetByID(id uint) (*models.GiftSchedule, error)
	ListByUser(ctx context.Context, userID uint) ([]models.GiftSchedule, error)
	ListByStatus(ctx context.Context, status string) ([]models.GiftSchedule, error)
	Update(schedule *models.GiftSchedule) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(schedule *models.GiftSchedule) error {
	if result := r.db.Create(schedule); result.Error != nil {
		return fmt.Errorf("failed to create schedule: %w", result.Error)
	}
	return nil
}

func (r *scheduleRepository) GetByID(id uint) (*models.GiftSchedule, error) {
	var schedule models.GiftSchedule
	if err := r.db.First(&schedule, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) ListByUser(ctx context.Context, userID uint) ([]models.GiftSchedule, error) {
	var schedules []models.GiftSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) ListByStatus(ctx context.Context, status string) ([]models.GiftSchedule, error) {
	var schedules []models.GiftSchedule
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules by status: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(schedule *models.GiftSchedule) error {
	if result := r.db.Save(schedule); result.Error != nil {
		return fmt.Errorf("failed to update schedule: %w", result.Error)
	}
	return nil
}

func (r *scheduleRepository) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&models.GiftSchedule{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update schedule status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *scheduleRepository) Delete(id uint) error {
	result := r.db.Delete(&models.GiftSchedule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
