// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).Create(categoryModel)
	if result.Error != nil {
		return storeError(result.Error)
	}
	return nil
}

// FindByID retrieves a live category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, storeError(result.Error)
	}
	return categoryModel.ToEntity(), nil
}

// FindVisible retrieves the system defaults plus the user's own active categories.
func (r *categoryRepository) FindVisible(ctx context.Context, userID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	query := r.db.WithContext(ctx).
		Where("(is_default = ? OR owner_user_id = ?)", true, userID).
		Where("is_active = ?", true)
	if categoryType != nil {
		query = query.Where("type = ?", string(*categoryType))
	}

	var categoryModels []model.CategoryModel
	result := query.Order("is_default DESC, name ASC").Find(&categoryModels)
	if result.Error != nil {
		return nil, storeError(result.Error)
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i, cm := range categoryModels {
		categories[i] = cm.ToEntity()
	}
	return categories, nil
}

// FindByIDs retrieves categories by ID, soft-deleted ones included, for display joins.
func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error) {
	if len(ids) == 0 {
		return []*entity.Category{}, nil
	}

	var categoryModels []model.CategoryModel
	result := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&categoryModels)
	if result.Error != nil {
		return nil, storeError(result.Error)
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i, cm := range categoryModels {
		categories[i] = cm.ToEntity()
	}
	return categories, nil
}

// ExistsByNameAndOwner checks if a live category with the given name exists for the owner.
func (r *categoryRepository) ExistsByNameAndOwner(ctx context.Context, name string, ownerUserID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.CategoryModel{}).Where("LOWER(name) = LOWER(?)", name)
	if ownerUserID == nil {
		query = query.Where("is_default = ?", true)
	} else {
		query = query.Where("owner_user_id = ?", *ownerUserID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, storeError(err)
	}
	return count > 0, nil
}

// Update updates an existing category in the database.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).Save(categoryModel)
	if result.Error != nil {
		return storeError(result.Error)
	}
	return nil
}

// SoftDelete marks a category as deleted.
func (r *categoryRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": at,
			"is_active":  false,
			"updated_at": at,
		})
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCategoryNotFound
	}
	return nil
}
