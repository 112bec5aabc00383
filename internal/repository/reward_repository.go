package repository

import (
	"braingain_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepository struct {
	DB *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{DB: db}
}

// FindByMaterial 没有奖励时返回 nil, nil
func (r *RewardRepository) FindByMaterial(ctx context.Context, materialID string) (*model.Reward, error) {
	var reward model.Reward
	err := r.DB.WithContext(ctx).Where("material_id = ?", materialID).First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// CreateIfAbsent 依赖 material_id 唯一索引原子插入，已存在时返回 false
func (r *RewardRepository) CreateIfAbsent(ctx context.Context, reward *model.Reward) (bool, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "material_id"}},
			DoNothing: true,
		}).
		Create(reward)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *RewardRepository) SumMinutes(ctx context.Context) (int, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&model.Reward{}).
		Select("COALESCE(SUM(minutes), 0)").
		Scan(&total).Error
	return int(total), err
}
