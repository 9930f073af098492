// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// userStatisticsRepository implements the adapter.UserStatisticsRepository interface.
type userStatisticsRepository struct {
	db *gorm.DB
}

// NewUserStatisticsRepository creates a new user statistics repository instance.
func NewUserStatisticsRepository(db *gorm.DB) adapter.UserStatisticsRepository {
	return &userStatisticsRepository{
		db: db,
	}
}

// Replace upserts the whole counter row in a single statement.
func (r *userStatisticsRepository) Replace(ctx context.Context, stats *entity.UserStatistics) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_income", "total_expense", "transaction_count", "updated_at"}),
		}).
		Create(model.UserStatisticsFromEntity(stats))
	if result.Error != nil {
		return storeError(result.Error)
	}
	return nil
}

// FindByUserID retrieves the stored counters of a user.
func (r *userStatisticsRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserStatistics, error) {
	var statsModel model.UserStatisticsModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&statsModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUserStatisticsNotFound
		}
		return nil, storeError(result.Error)
	}
	return statsModel.ToEntity(), nil
}
