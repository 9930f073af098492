package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// BudgetNotificationsRequest carries optional alert settings.
type BudgetNotificationsRequest struct {
	Enabled          *bool `json:"enabled,omitempty"`
	ThresholdPercent *int  `json:"threshold_percent,omitempty"`
}

// BudgetRolloverRequest carries optional carry-over settings.
type BudgetRolloverRequest struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	MaxRollover *string `json:"max_rollover,omitempty"`
}

// CreateBudgetRequest represents the request body for budget creation.
type CreateBudgetRequest struct {
	CategoryID    string                      `json:"category_id" binding:"required,uuid"`
	Amount        decimal.Decimal             `json:"amount"`
	Period        string                      `json:"period" binding:"required"`
	StartDate     string                      `json:"start_date" binding:"required"`
	EndDate       string                      `json:"end_date,omitempty"`
	Notifications *BudgetNotificationsRequest `json:"notifications,omitempty"`
	Rollover      *BudgetRolloverRequest      `json:"rollover,omitempty"`
}

// ToInput converts the request into use case input.
func (r CreateBudgetRequest) ToInput(userID uuid.UUID) (budget.CreateBudgetInput, error) {
	input := budget.CreateBudgetInput{
		UserID: userID,
		Amount: r.Amount,
		Period: entity.BudgetPeriod(r.Period),
	}

	var err error
	if input.CategoryID, err = uuid.Parse(r.CategoryID); err != nil {
		return input, fmt.Errorf("category_id: %w", err)
	}
	if input.StartDate, err = ParseDate(r.StartDate); err != nil {
		return input, fmt.Errorf("start_date: %w", err)
	}
	if input.EndDate, err = ParseOptionalDate(r.EndDate); err != nil {
		return input, fmt.Errorf("end_date: %w", err)
	}

	input.Notifications = r.Notifications.toInput()
	if input.Rollover, err = r.Rollover.toInput(); err != nil {
		return input, err
	}
	return input, nil
}

// UpdateBudgetRequest represents the request body for budget update.
type UpdateBudgetRequest struct {
	Amount        *string                     `json:"amount,omitempty"`
	StartDate     *string                     `json:"start_date,omitempty"`
	EndDate       *string                     `json:"end_date,omitempty"`
	Status        *string                     `json:"status,omitempty" binding:"omitempty,oneof=active paused"`
	Notifications *BudgetNotificationsRequest `json:"notifications,omitempty"`
	Rollover      *BudgetRolloverRequest      `json:"rollover,omitempty"`
}

// ToInput converts the request into use case input.
func (r UpdateBudgetRequest) ToInput(budgetID, userID uuid.UUID) (budget.UpdateBudgetInput, error) {
	input := budget.UpdateBudgetInput{
		BudgetID:      budgetID,
		UserID:        userID,
		Notifications: r.Notifications.toInput(),
	}

	var err error
	if input.Amount, err = ParseOptionalDecimal(r.Amount); err != nil {
		return input, fmt.Errorf("amount: %w", err)
	}
	if r.StartDate != nil {
		start, err := ParseDate(*r.StartDate)
		if err != nil {
			return input, fmt.Errorf("start_date: %w", err)
		}
		input.StartDate = &start
	}
	if r.EndDate != nil {
		end, err := ParseDate(*r.EndDate)
		if err != nil {
			return input, fmt.Errorf("end_date: %w", err)
		}
		input.EndDate = &end
	}
	if r.Status != nil {
		status := entity.BudgetStatus(*r.Status)
		input.Status = &status
	}
	if input.Rollover, err = r.Rollover.toInput(); err != nil {
		return input, err
	}
	return input, nil
}

func (r *BudgetNotificationsRequest) toInput() *budget.NotificationSettingsInput {
	if r == nil {
		return nil
	}
	return &budget.NotificationSettingsInput{
		Enabled:          r.Enabled,
		ThresholdPercent: r.ThresholdPercent,
	}
}

func (r *BudgetRolloverRequest) toInput() (*budget.RolloverSettingsInput, error) {
	if r == nil {
		return nil, nil
	}
	maxRollover, err := ParseOptionalDecimal(r.MaxRollover)
	if err != nil {
		return nil, fmt.Errorf("rollover.max_rollover: %w", err)
	}
	return &budget.RolloverSettingsInput{
		Enabled:     r.Enabled,
		MaxRollover: maxRollover,
	}, nil
}

// BudgetNotificationsResponse represents alert settings in API responses.
type BudgetNotificationsResponse struct {
	Enabled          bool    `json:"enabled"`
	ThresholdPercent int     `json:"threshold_percent"`
	LastSentAt       *string `json:"last_sent_at,omitempty"`
}

// BudgetRolloverResponse represents carry-over settings in API responses.
type BudgetRolloverResponse struct {
	Enabled     bool   `json:"enabled"`
	MaxRollover string `json:"max_rollover"`
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID              string                      `json:"id"`
	UserID          string                      `json:"user_id"`
	CategoryID      string                      `json:"category_id"`
	Category        *CategoryResponse           `json:"category,omitempty"`
	Amount          string                      `json:"amount"`
	Period          string                      `json:"period"`
	StartDate       string                      `json:"start_date"`
	EndDate         string                      `json:"end_date"`
	Status          string                      `json:"status"`
	ActualSpent     string                      `json:"actual_spent"`
	RemainingAmount string                      `json:"remaining_amount"`
	UtilizationRate string                      `json:"utilization_rate"`
	IsOverBudget    bool                        `json:"is_over_budget"`
	Notifications   BudgetNotificationsResponse `json:"notifications"`
	Rollover        BudgetRolloverResponse      `json:"rollover"`
	RecomputedAt    *string                     `json:"recomputed_at,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// BudgetListResponse represents the response for listing budgets.
type BudgetListResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// BudgetSummaryResponse represents the aggregate counters across budgets.
type BudgetSummaryResponse struct {
	AsOf           string `json:"as_of"`
	TotalBudgeted  string `json:"total_budgeted"`
	TotalSpent     string `json:"total_spent"`
	TotalRemaining string `json:"total_remaining"`
	BudgetCount    int    `json:"budget_count"`
	OverBudget     int    `json:"over_budget"`
	NearLimit      int    `json:"near_limit"`
}

// RenewBudgetResponse represents the result of a renewal.
type RenewBudgetResponse struct {
	Previous BudgetResponse `json:"previous"`
	Next     BudgetResponse `json:"next"`
	Carried  string         `json:"carried"`
}

// ToBudgetResponse converts a domain Budget to a BudgetResponse DTO.
func ToBudgetResponse(b *entity.Budget, category *entity.Category) BudgetResponse {
	response := BudgetResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		CategoryID:      b.CategoryID.String(),
		Amount:          b.Amount.StringFixed(2),
		Period:          string(b.Period),
		StartDate:       b.StartDate.Format(DateLayout),
		EndDate:         b.EndDate.Format(DateLayout),
		Status:          string(b.Status),
		ActualSpent:     b.ActualSpent.StringFixed(2),
		RemainingAmount: b.RemainingAmount.StringFixed(2),
		UtilizationRate: b.UtilizationRate.StringFixed(2),
		IsOverBudget:    b.IsOverBudget(),
		Notifications: BudgetNotificationsResponse{
			Enabled:          b.Notifications.Enabled,
			ThresholdPercent: b.Notifications.ThresholdPercent,
			LastSentAt:       formatTime(b.Notifications.LastSentAt),
		},
		Rollover: BudgetRolloverResponse{
			Enabled:     b.Rollover.Enabled,
			MaxRollover: b.Rollover.MaxRollover.StringFixed(2),
		},
		RecomputedAt: formatTime(b.RecomputedAt),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if category != nil {
		c := ToCategoryResponse(category)
		response.Category = &c
	}
	return response
}

// ToBudgetListResponse converts budgets with categories to a BudgetListResponse DTO.
func ToBudgetListResponse(budgets []*entity.BudgetWithCategory) BudgetListResponse {
	items := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		items[i] = ToBudgetResponse(b.Budget, b.Category)
	}
	return BudgetListResponse{Budgets: items}
}

// ToBudgetSummaryResponse converts a BudgetSummary to its DTO.
func ToBudgetSummaryResponse(s *entity.BudgetSummary) BudgetSummaryResponse {
	return BudgetSummaryResponse{
		AsOf:           s.AsOf.Format(DateLayout),
		TotalBudgeted:  s.TotalBudgeted.StringFixed(2),
		TotalSpent:     s.TotalSpent.StringFixed(2),
		TotalRemaining: s.TotalRemaining.StringFixed(2),
		BudgetCount:    s.BudgetCount,
		OverBudget:     s.OverBudget,
		NearLimit:      s.NearLimit,
	}
}

// ToRenewBudgetResponse converts a RenewBudgetOutput to its DTO.
func ToRenewBudgetResponse(output *budget.RenewBudgetOutput) RenewBudgetResponse {
	return RenewBudgetResponse{
		Previous: ToBudgetResponse(output.Previous, nil),
		Next:     ToBudgetResponse(output.Next, nil),
		Carried:  output.Carried.StringFixed(2),
	}
}
