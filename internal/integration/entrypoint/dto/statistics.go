package dto

import (
	"github.com/finance-tracker/ledger/internal/application/usecase/consistency"
	"github.com/finance-tracker/ledger/internal/application/usecase/statistics"
)

// DateRangeResponse represents the resolved half-open range of a report.
type DateRangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UserStatsResponse represents the lifetime counters of a user.
type UserStatsResponse struct {
	TotalIncome      string  `json:"total_income"`
	TotalExpense     string  `json:"total_expense"`
	Balance          string  `json:"balance"`
	TransactionCount int64   `json:"transaction_count"`
	UpdatedAt        *string `json:"updated_at,omitempty"`
}

// MonthlyTrendItem represents one month of activity.
type MonthlyTrendItem struct {
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	Income           string `json:"income"`
	Expense          string `json:"expense"`
	Net              string `json:"net"`
	TransactionCount int    `json:"transaction_count"`
}

// MonthlyTrendResponse represents the monthly trend report.
type MonthlyTrendResponse struct {
	Range  DateRangeResponse  `json:"range"`
	Months []MonthlyTrendItem `json:"months"`
}

// CategoryRankingItemResponse represents one category's share of spending.
type CategoryRankingItemResponse struct {
	CategoryID    string            `json:"category_id"`
	Category      *CategoryResponse `json:"category,omitempty"`
	TotalAmount   string            `json:"total_amount"`
	Count         int               `json:"count"`
	AverageAmount string            `json:"average_amount"`
	Percentage    string            `json:"percentage"`
}

// CategoryRankingResponse represents the category ranking report.
type CategoryRankingResponse struct {
	Range         DateRangeResponse             `json:"range"`
	TotalExpenses string                        `json:"total_expenses"`
	Categories    []CategoryRankingItemResponse `json:"categories"`
}

// PaymentMethodItem represents the spending of one payment method.
type PaymentMethodItem struct {
	PaymentMethod string `json:"payment_method"`
	TotalAmount   string `json:"total_amount"`
	Count         int    `json:"count"`
	Percentage    string `json:"percentage"`
}

// PaymentMethodsResponse represents the payment method breakdown.
type PaymentMethodsResponse struct {
	Range   DateRangeResponse   `json:"range"`
	Methods []PaymentMethodItem `json:"methods"`
}

// TimeOfDayItem represents one weekday/weekend day-part bucket.
type TimeOfDayItem struct {
	Weekend       bool   `json:"weekend"`
	DayPart       string `json:"day_part"`
	TotalAmount   string `json:"total_amount"`
	Count         int    `json:"count"`
	AverageAmount string `json:"average_amount"`
}

// TimeOfDayResponse represents the spending pattern by time of day.
type TimeOfDayResponse struct {
	Range   DateRangeResponse `json:"range"`
	Buckets []TimeOfDayItem   `json:"buckets"`
}

// OverviewResponse bundles the statistics views of a dashboard.
type OverviewResponse struct {
	Lifetime       UserStatsResponse       `json:"lifetime"`
	Ranking        CategoryRankingResponse `json:"ranking"`
	PaymentMethods PaymentMethodsResponse  `json:"payment_methods"`
	TimeOfDay      TimeOfDayResponse       `json:"time_of_day"`
}

// ReconcileResponse reports a reconcile run.
type ReconcileResponse struct {
	Users    int `json:"users"`
	Budgets  int `json:"budgets"`
	Failures int `json:"failures"`
}

func toRange(r statistics.DateRange) DateRangeResponse {
	return DateRangeResponse{
		Start: r.Start.Format(DateLayout),
		End:   r.End.Format(DateLayout),
	}
}

// ToUserStatsResponse converts lifetime counters to their DTO.
func ToUserStatsResponse(output *statistics.GetUserStatsOutput) UserStatsResponse {
	response := UserStatsResponse{
		TotalIncome:      output.Stats.TotalIncome.StringFixed(2),
		TotalExpense:     output.Stats.TotalExpense.StringFixed(2),
		Balance:          output.Balance.StringFixed(2),
		TransactionCount: output.Stats.TransactionCount,
	}
	if !output.Stats.UpdatedAt.IsZero() {
		response.UpdatedAt = formatTime(&output.Stats.UpdatedAt)
	}
	return response
}

// ToMonthlyTrendResponse converts the monthly trend to its DTO.
func ToMonthlyTrendResponse(output *statistics.GetMonthlyTrendOutput) MonthlyTrendResponse {
	months := make([]MonthlyTrendItem, len(output.Rows))
	for i, row := range output.Rows {
		months[i] = MonthlyTrendItem{
			Year:             row.Year,
			Month:            int(row.Month),
			Income:           row.Income.StringFixed(2),
			Expense:          row.Expense.StringFixed(2),
			Net:              row.Income.Sub(row.Expense).StringFixed(2),
			TransactionCount: row.TransactionCount,
		}
	}
	return MonthlyTrendResponse{Range: toRange(output.Range), Months: months}
}

// ToCategoryRankingResponse converts the category ranking to its DTO.
func ToCategoryRankingResponse(output *statistics.GetCategoryRankingOutput) CategoryRankingResponse {
	items := make([]CategoryRankingItemResponse, len(output.Items))
	for i, item := range output.Items {
		items[i] = CategoryRankingItemResponse{
			CategoryID:    item.CategoryID.String(),
			TotalAmount:   item.TotalAmount.StringFixed(2),
			Count:         item.Count,
			AverageAmount: item.AverageAmount.StringFixed(2),
			Percentage:    item.Percentage.StringFixed(2),
		}
		if item.Category != nil {
			c := ToCategoryResponse(item.Category)
			items[i].Category = &c
		}
	}
	return CategoryRankingResponse{
		Range:         toRange(output.Range),
		TotalExpenses: output.TotalExpenses.StringFixed(2),
		Categories:    items,
	}
}

// ToPaymentMethodsResponse converts the payment method breakdown to its DTO.
func ToPaymentMethodsResponse(output *statistics.GetPaymentMethodsOutput) PaymentMethodsResponse {
	methods := make([]PaymentMethodItem, len(output.Rows))
	for i, row := range output.Rows {
		methods[i] = PaymentMethodItem{
			PaymentMethod: string(row.PaymentMethod),
			TotalAmount:   row.TotalAmount.StringFixed(2),
			Count:         row.Count,
			Percentage:    row.Percentage.StringFixed(2),
		}
	}
	return PaymentMethodsResponse{Range: toRange(output.Range), Methods: methods}
}

// ToTimeOfDayResponse converts the time-of-day pattern to its DTO.
func ToTimeOfDayResponse(output *statistics.GetTimeOfDayOutput) TimeOfDayResponse {
	buckets := make([]TimeOfDayItem, len(output.Rows))
	for i, row := range output.Rows {
		buckets[i] = TimeOfDayItem{
			Weekend:       row.Weekend,
			DayPart:       string(row.DayPart),
			TotalAmount:   row.TotalAmount.StringFixed(2),
			Count:         row.Count,
			AverageAmount: row.AverageAmount.StringFixed(2),
		}
	}
	return TimeOfDayResponse{Range: toRange(output.Range), Buckets: buckets}
}

// ToOverviewResponse converts the dashboard overview to its DTO.
func ToOverviewResponse(output *statistics.GetOverviewOutput) OverviewResponse {
	return OverviewResponse{
		Lifetime:       ToUserStatsResponse(output.Lifetime),
		Ranking:        ToCategoryRankingResponse(output.Ranking),
		PaymentMethods: ToPaymentMethodsResponse(output.PaymentMethods),
		TimeOfDay:      ToTimeOfDayResponse(output.TimeOfDay),
	}
}

// ToReconcileResponse converts a reconcile report to its DTO.
func ToReconcileResponse(report *consistency.ReconcileReport) ReconcileResponse {
	return ReconcileResponse{
		Users:    report.Users,
		Budgets:  report.Budgets,
		Failures: report.Failures,
	}
}
