package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// RecurringSettingsRequest describes the repetition of a recurring entry.
type RecurringSettingsRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	Interval  int    `json:"interval" binding:"omitempty,min=1"`
	EndDate   string `json:"end_date,omitempty"`
}

// TransactionEntryRequest represents one ledger entry in create and import requests.
type TransactionEntryRequest struct {
	Type              string                    `json:"type" binding:"required,oneof=expense income"`
	Amount            decimal.Decimal           `json:"amount"`
	CategoryID        string                    `json:"category_id" binding:"required,uuid"`
	Description       string                    `json:"description" binding:"required"`
	TransactionDate   string                    `json:"transaction_date" binding:"required"`
	PaymentMethod     string                    `json:"payment_method,omitempty"`
	Tags              []string                  `json:"tags,omitempty"`
	IsRecurring       bool                      `json:"is_recurring,omitempty"`
	RecurringSettings *RecurringSettingsRequest `json:"recurring_settings,omitempty"`
}

// ToEntryInput converts the request into use case input.
func (r TransactionEntryRequest) ToEntryInput() (transaction.EntryInput, error) {
	categoryID, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return transaction.EntryInput{}, fmt.Errorf("category_id: %w", err)
	}

	date, err := ParseDate(r.TransactionDate)
	if err != nil {
		return transaction.EntryInput{}, fmt.Errorf("transaction_date: %w", err)
	}

	recurring, err := r.RecurringSettings.toEntity()
	if err != nil {
		return transaction.EntryInput{}, err
	}

	return transaction.EntryInput{
		Type:              entity.TransactionType(r.Type),
		Amount:            r.Amount,
		CategoryID:        categoryID,
		Description:       r.Description,
		TransactionDate:   date,
		PaymentMethod:     entity.PaymentMethod(r.PaymentMethod),
		Tags:              r.Tags,
		IsRecurring:       r.IsRecurring,
		RecurringSettings: recurring,
	}, nil
}

func (r *RecurringSettingsRequest) toEntity() (*entity.RecurringSettings, error) {
	if r == nil {
		return nil, nil
	}

	endDate, err := ParseOptionalDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("recurring_settings.end_date: %w", err)
	}

	return &entity.RecurringSettings{
		Frequency: entity.RecurringFrequency(r.Frequency),
		Interval:  r.Interval,
		EndDate:   endDate,
	}, nil
}

// ImportTransactionsRequest represents a bulk import of ledger entries.
type ImportTransactionsRequest struct {
	Transactions []TransactionEntryRequest `json:"transactions" binding:"required,min=1,max=500,dive"`
}

// UpdateTransactionRequest represents the request body for transaction update.
// Type cannot change after creation.
type UpdateTransactionRequest struct {
	Amount          *string   `json:"amount,omitempty"`
	CategoryID      *string   `json:"category_id,omitempty"`
	Description     *string   `json:"description,omitempty"`
	TransactionDate *string   `json:"transaction_date,omitempty"`
	PaymentMethod   *string   `json:"payment_method,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
}

// ToInput converts the request into use case input.
func (r UpdateTransactionRequest) ToInput(transactionID, userID uuid.UUID) (transaction.UpdateTransactionInput, error) {
	input := transaction.UpdateTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
		Description:   r.Description,
		Tags:          r.Tags,
	}

	var err error
	if input.Amount, err = ParseOptionalDecimal(r.Amount); err != nil {
		return input, fmt.Errorf("amount: %w", err)
	}
	if input.CategoryID, err = ParseOptionalUUID(r.CategoryID); err != nil {
		return input, fmt.Errorf("category_id: %w", err)
	}
	if r.TransactionDate != nil {
		date, err := ParseDate(*r.TransactionDate)
		if err != nil {
			return input, fmt.Errorf("transaction_date: %w", err)
		}
		input.TransactionDate = &date
	}
	if r.PaymentMethod != nil {
		method := entity.PaymentMethod(*r.PaymentMethod)
		input.PaymentMethod = &method
	}
	return input, nil
}

// TransactionCategoryResponse represents category information in transaction response.
type TransactionCategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Type  string `json:"type"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID                string                       `json:"id"`
	UserID            string                       `json:"user_id"`
	Type              string                       `json:"type"`
	Amount            string                       `json:"amount"`
	CategoryID        string                       `json:"category_id"`
	Category          *TransactionCategoryResponse `json:"category,omitempty"`
	Description       string                       `json:"description"`
	TransactionDate   time.Time                    `json:"transaction_date"`
	PaymentMethod     string                       `json:"payment_method"`
	Tags              []string                     `json:"tags"`
	Status            string                       `json:"status"`
	DeletedAt         *string                      `json:"deleted_at,omitempty"`
	IsRecurring       bool                         `json:"is_recurring"`
	RecurringSettings *entity.RecurringSettings    `json:"recurring_settings,omitempty"`
	CreatedAt         time.Time                    `json:"created_at"`
	UpdatedAt         time.Time                    `json:"updated_at"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse         `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
}

// ImportTransactionsResponse represents the response for a bulk import.
type ImportTransactionsResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a TransactionOutput to a TransactionResponse DTO.
func ToTransactionResponse(txn *transaction.TransactionOutput) TransactionResponse {
	tags := txn.Tags
	if tags == nil {
		tags = []string{}
	}

	response := TransactionResponse{
		ID:                txn.ID.String(),
		UserID:            txn.UserID.String(),
		Type:              string(txn.Type),
		Amount:            txn.Amount.StringFixed(2),
		CategoryID:        txn.CategoryID.String(),
		Description:       txn.Description,
		TransactionDate:   txn.TransactionDate,
		PaymentMethod:     string(txn.PaymentMethod),
		Tags:              tags,
		Status:            string(txn.Status),
		DeletedAt:         formatTime(txn.DeletedAt),
		IsRecurring:       txn.IsRecurring,
		RecurringSettings: txn.RecurringSettings,
		CreatedAt:         txn.CreatedAt,
		UpdatedAt:         txn.UpdatedAt,
	}

	if txn.Category != nil {
		response.Category = &TransactionCategoryResponse{
			ID:    txn.Category.ID.String(),
			Name:  txn.Category.Name,
			Color: txn.Category.Color,
			Icon:  txn.Category.Icon,
			Type:  string(txn.Category.Type),
		}
	}

	return response
}

// ToTransactionResponses converts a slice of outputs.
func ToTransactionResponses(outputs []*transaction.TransactionOutput) []TransactionResponse {
	items := make([]TransactionResponse, len(outputs))
	for i, txn := range outputs {
		items[i] = ToTransactionResponse(txn)
	}
	return items
}

// ToTransactionListResponse converts a ListTransactionsOutput to a TransactionListResponse DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	return TransactionListResponse{
		Transactions: ToTransactionResponses(output.Transactions),
		Pagination: TransactionPaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
}
