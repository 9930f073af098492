// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// UserStatisticsRepository defines the interface for the per-user lifetime counters.
type UserStatisticsRepository interface {
	// Replace overwrites the stored counters with stats in a single write.
	Replace(ctx context.Context, stats *entity.UserStatistics) error

	// FindByUserID retrieves the stored counters. Users without a recompute yet
	// yield domain.ErrUserStatisticsNotFound.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserStatistics, error)
}
