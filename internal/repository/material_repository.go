package repository

import (
	"braingain_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	DB *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{DB: db}
}

func (r *MaterialRepository) Create(ctx context.Context, material *model.Material) error {
	return r.DB.WithContext(ctx).Create(material).Error
}

// FindByID 未找到时返回 gorm.ErrRecordNotFound
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*model.Material, error) {
	var material model.Material
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// List 按创建时间倒序
func (r *MaterialRepository) List(ctx context.Context) ([]model.Material, error) {
	var materials []model.Material
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&materials).Error
	return materials, err
}

// Delete 物理删除，返回是否删除了记录
func (r *MaterialRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Material{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
