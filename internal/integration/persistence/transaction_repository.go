// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Create(transactionModel)
	if result.Error != nil {
		return storeError(result.Error)
	}
	return nil
}

// CreateBatch stores all transactions in a single database transaction.
func (r *transactionRepository) CreateBatch(ctx context.Context, transactions []*entity.Transaction) error {
	return storeError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, txn := range transactions {
			if err := tx.Create(model.TransactionFromEntity(txn)).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// FindByID retrieves a transaction by its ID regardless of status.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, storeError(result.Error)
	}
	return transactionModel.ToEntity(), nil
}

// FindByFilter retrieves transactions based on filter criteria with pagination.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{})

	// Apply filters
	query = query.Where("user_id = ?", filter.UserID)

	status := filter.Status
	if status == "" {
		status = entity.TransactionStatusActive
	}
	query = query.Where("status = ?", string(status))

	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("payment_method = ?", string(*filter.PaymentMethod))
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date < ?", filter.EndDate.UTC())
	}

	// Get total count
	var total int64
	countQuery := query.Session(&gorm.Session{})
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, storeError(err)
	}

	// Calculate pagination
	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	sortBy := pagination.SortBy
	if !sortBy.IsValid() {
		sortBy = adapter.SortByTransactionDate
	}
	direction := " ASC"
	if pagination.SortDesc {
		direction = " DESC"
	}

	// Fetch transactions with category preloaded, soft-deleted categories included
	var transactionModels []model.TransactionModel
	result := query.
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order(string(sortBy) + direction).
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(pagination.Limit).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, storeError(result.Error)
	}

	transactions := make([]*entity.TransactionWithCategory, len(transactionModels))
	for i, tm := range transactionModels {
		transactions[i] = tm.ToEntityWithCategory()
	}

	return &adapter.TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// UpdateDetails writes the editable columns of a transaction that is still active.
// Status and deleted_at are only written by UpdateStatus.
func (r *transactionRepository) UpdateDetails(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	return r.updateActive(ctx, transaction.ID, map[string]interface{}{
		"amount":           transactionModel.Amount,
		"category_id":      transactionModel.CategoryID,
		"description":      transactionModel.Description,
		"transaction_date": transactionModel.TransactionDate,
		"payment_method":   transactionModel.PaymentMethod,
		"tags":             transactionModel.Tags,
		"updated_at":       transactionModel.UpdatedAt,
	})
}

// UpdateStatus moves an active transaction to its new status.
func (r *transactionRepository) UpdateStatus(ctx context.Context, transaction *entity.Transaction) error {
	return r.updateActive(ctx, transaction.ID, map[string]interface{}{
		"status":     string(transaction.Status),
		"deleted_at": transaction.DeletedAt,
		"updated_at": transaction.UpdatedAt,
	})
}

// updateActive applies columns only while the row is active, so a concurrent
// lifecycle transition is never overwritten.
func (r *transactionRepository) updateActive(ctx context.Context, id uuid.UUID, columns map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ? AND status = ?", id, string(entity.TransactionStatusActive)).
		Updates(columns)
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotEditable
	}
	return nil
}

// CountByCategory counts transactions referencing a category.
func (r *transactionRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID, status *entity.TransactionStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{}).Where("category_id = ?", categoryID)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

// activeExpenses scopes a query to the user's active expense rows in [start, end).
func (r *transactionRepository) activeExpenses(ctx context.Context, userID uuid.UUID, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("user_id = ?", userID).
		Where("status = ?", string(entity.TransactionStatusActive)).
		Where("type = ?", string(entity.TransactionTypeExpense)).
		Where("transaction_date >= ? AND transaction_date < ?", start.UTC(), end.UTC())
}

// SumExpenses sums active expense amounts for a user and category with transaction_date in [start, end).
func (r *transactionRepository) SumExpenses(ctx context.Context, userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.activeExpenses(ctx, userID, start, end).
		Where("category_id = ?", categoryID).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, storeError(err)
	}
	return result.Total.Round(2), nil
}

// GetLifetimeTotals sums the user's active income and expense and counts the rows.
func (r *transactionRepository) GetLifetimeTotals(ctx context.Context, userID uuid.UUID) (*adapter.LedgerTotals, error) {
	var rows []struct {
		Type  string
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("user_id = ?", userID).
		Where("status = ?", string(entity.TransactionStatusActive)).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	totals := &adapter.LedgerTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range rows {
		switch entity.TransactionType(row.Type) {
		case entity.TransactionTypeIncome:
			totals.Income = row.Total.Round(2)
		case entity.TransactionTypeExpense:
			totals.Expense = row.Total.Round(2)
		}
		totals.Count += row.Count
	}
	return totals, nil
}

// SumExpensesByCategory groups active expenses in [start, end) by category.
func (r *transactionRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]adapter.CategoryTotal, error) {
	var rows []struct {
		CategoryID uuid.UUID
		Total      decimal.Decimal
		Count      int64
	}
	err := r.activeExpenses(ctx, userID, start, end).
		Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	totals := make([]adapter.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = adapter.CategoryTotal{CategoryID: row.CategoryID, Total: row.Total.Round(2), Count: row.Count}
	}
	return totals, nil
}

// SumExpensesByPaymentMethod groups active expenses in [start, end) by payment method.
func (r *transactionRepository) SumExpensesByPaymentMethod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]adapter.PaymentMethodTotal, error) {
	var rows []struct {
		PaymentMethod string
		Total         decimal.Decimal
		Count         int64
	}
	err := r.activeExpenses(ctx, userID, start, end).
		Select("payment_method, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	totals := make([]adapter.PaymentMethodTotal, len(rows))
	for i, row := range rows {
		totals[i] = adapter.PaymentMethodTotal{
			PaymentMethod: entity.PaymentMethod(row.PaymentMethod),
			Total:         row.Total.Round(2),
			Count:         row.Count,
		}
	}
	return totals, nil
}

// FindLedgerPoints projects active transactions in [start, end), optionally of one type.
func (r *transactionRepository) FindLedgerPoints(ctx context.Context, userID uuid.UUID, transactionType *entity.TransactionType, start, end time.Time) ([]adapter.LedgerPoint, error) {
	query := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("user_id = ?", userID).
		Where("status = ?", string(entity.TransactionStatusActive)).
		Where("transaction_date >= ? AND transaction_date < ?", start.UTC(), end.UTC())
	if transactionType != nil {
		query = query.Where("type = ?", string(*transactionType))
	}

	var rows []struct {
		Type            string
		Amount          decimal.Decimal
		TransactionDate time.Time
	}
	err := query.
		Select("type, amount, transaction_date").
		Order("transaction_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	points := make([]adapter.LedgerPoint, len(rows))
	for i, row := range rows {
		points[i] = adapter.LedgerPoint{
			Type:            entity.TransactionType(row.Type),
			Amount:          row.Amount,
			TransactionDate: row.TransactionDate.UTC(),
		}
	}
	return points, nil
}

// FindUserIDs lists every user that owns at least one transaction.
func (r *transactionRepository) FindUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, storeError(err)
	}
	return ids, nil
}
