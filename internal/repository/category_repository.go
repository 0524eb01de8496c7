package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agenda-bjj/internal/model"
)

// CategoryRepository reads task categories. Categories are managed by the
// dashboard CRUD API; the bot only resolves names and icons for display.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
