package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/testutil"
)

func TestUserStatisticsRepository_Replace(t *testing.T) {
	ctx := context.Background()
	repo := NewUserStatisticsRepository(testutil.NewDB(t))
	userID := uuid.New()

	_, err := repo.FindByUserID(ctx, userID)
	assert.ErrorIs(t, err, domainerror.ErrUserStatisticsNotFound)

	first := &entity.UserStatistics{UserID: userID, TotalIncome: decimal.NewFromInt(100), TotalExpense: decimal.NewFromInt(40), TransactionCount: 3, UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.Replace(ctx, first))

	second := &entity.UserStatistics{UserID: userID, TotalIncome: decimal.NewFromInt(100), TotalExpense: decimal.Zero, TransactionCount: 1, UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.Replace(ctx, second))

	got, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "0", got.TotalExpense.String())
	assert.Equal(t, int64(1), got.TransactionCount)
}
