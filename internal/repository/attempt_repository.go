package repository

import (
	"braingain_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

// FindLatestFailed 最近一次未通过的尝试，没有时返回 nil, nil
func (r *AttemptRepository) FindLatestFailed(ctx context.Context, materialID string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.WithContext(ctx).
		Where("material_id = ? AND passed = ?", materialID, false).
		Order("created_at DESC").
		Order("id DESC").
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) ExistsPassed(ctx context.Context, materialID string) (bool, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.Attempt{}).
		Where("material_id = ? AND passed = ?", materialID, true).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}
