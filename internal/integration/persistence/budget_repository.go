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

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// Create creates a new budget in the database.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	result := r.db.WithContext(ctx).Create(model.BudgetFromEntity(budget))
	if result.Error != nil {
		return storeError(result.Error)
	}
	return nil
}

// FindByID retrieves a budget by its ID.
func (r *budgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, storeError(result.Error)
	}
	return budgetModel.ToEntity(), nil
}

// FindByUser retrieves a user's budgets, optionally narrowed to one status.
func (r *budgetRepository) FindByUser(ctx context.Context, userID uuid.UUID, status *entity.BudgetStatus) ([]*entity.Budget, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	return r.find(query.Order("start_date DESC, created_at DESC"))
}

// FindCovering retrieves every budget of the user and category whose window contains date.
// End dates are stored as day starts, so the day of date is compared against them.
func (r *budgetRepository) FindCovering(ctx context.Context, userID, categoryID uuid.UUID, date time.Time) ([]*entity.Budget, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Where("start_date <= ? AND end_date >= ?", date.UTC(), entity.TruncateDay(date)).
		Order("start_date ASC")
	return r.find(query)
}

// FindActiveAt retrieves the user's active budgets whose window contains asOf.
func (r *budgetRepository) FindActiveAt(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*entity.Budget, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", string(entity.BudgetStatusActive)).
		Where("start_date <= ? AND end_date >= ?", asOf.UTC(), entity.TruncateDay(asOf)).
		Order("start_date ASC")
	return r.find(query)
}

func (r *budgetRepository) find(query *gorm.DB) ([]*entity.Budget, error) {
	var budgetModels []model.BudgetModel
	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, storeError(err)
	}

	budgets := make([]*entity.Budget, len(budgetModels))
	for i, bm := range budgetModels {
		budgets[i] = bm.ToEntity()
	}
	return budgets, nil
}

// Update saves the user-editable columns of a budget.
// Derived columns are left to UpdateDerived so a concurrent recompute is not overwritten.
func (r *budgetRepository) Update(ctx context.Context, budget *entity.Budget) error {
	m := model.BudgetFromEntity(budget)
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", budget.ID).
		Updates(map[string]interface{}{
			"amount":                m.Amount,
			"period":                m.Period,
			"start_date":            m.StartDate,
			"end_date":              m.EndDate,
			"status":                m.Status,
			"notifications_enabled": m.NotificationsEnabled,
			"threshold_percent":     m.ThresholdPercent,
			"rollover_enabled":      m.RolloverEnabled,
			"max_rollover":          m.MaxRollover,
			"updated_at":            m.UpdatedAt,
		})
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// UpdateDerived saves the derived spending columns and the notification timestamp in one write.
func (r *budgetRepository) UpdateDerived(ctx context.Context, budget *entity.Budget) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", budget.ID).
		Updates(map[string]interface{}{
			"actual_spent":         budget.ActualSpent,
			"remaining_amount":     budget.RemainingAmount,
			"utilization_rate":     budget.UtilizationRate,
			"recomputed_at":        budget.RecomputedAt,
			"notification_sent_at": budget.Notifications.LastSentAt,
		})
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// CountByCategory counts budgets in any status that track a category.
func (r *budgetRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

// FindUserIDs lists every user that owns at least one budget.
func (r *budgetRepository) FindUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, storeError(err)
	}
	return ids, nil
}
