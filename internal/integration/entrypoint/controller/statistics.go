package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/consistency"
	"github.com/finance-tracker/ledger/internal/application/usecase/statistics"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// StatisticsController handles the read-side statistics endpoints and the
// per-user reconcile trigger.
type StatisticsController struct {
	userStatsUseCase      *statistics.GetUserStatsUseCase
	trendUseCase          *statistics.GetMonthlyTrendUseCase
	rankingUseCase        *statistics.GetCategoryRankingUseCase
	paymentMethodsUseCase *statistics.GetPaymentMethodsUseCase
	timeOfDayUseCase      *statistics.GetTimeOfDayUseCase
	overviewUseCase       *statistics.GetOverviewUseCase
	coordinator           *consistency.Coordinator
}

// NewStatisticsController creates a new statistics controller instance.
func NewStatisticsController(
	userStatsUseCase *statistics.GetUserStatsUseCase,
	trendUseCase *statistics.GetMonthlyTrendUseCase,
	rankingUseCase *statistics.GetCategoryRankingUseCase,
	paymentMethodsUseCase *statistics.GetPaymentMethodsUseCase,
	timeOfDayUseCase *statistics.GetTimeOfDayUseCase,
	overviewUseCase *statistics.GetOverviewUseCase,
	coordinator *consistency.Coordinator,
) *StatisticsController {
	return &StatisticsController{
		userStatsUseCase:      userStatsUseCase,
		trendUseCase:          trendUseCase,
		rankingUseCase:        rankingUseCase,
		paymentMethodsUseCase: paymentMethodsUseCase,
		timeOfDayUseCase:      timeOfDayUseCase,
		overviewUseCase:       overviewUseCase,
		coordinator:           coordinator,
	}
}

// UserStats handles GET /statistics requests.
func (c *StatisticsController) UserStats(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.userStatsUseCase.Execute(ctx.Request.Context(), statistics.GetUserStatsInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserStatsResponse(output))
}

// MonthlyTrend handles GET /statistics/trend requests.
func (c *StatisticsController) MonthlyTrend(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	start, end, ok := queryRange(ctx)
	if !ok {
		return
	}
	months, ok := queryInt(ctx, "months")
	if !ok {
		return
	}

	output, err := c.trendUseCase.Execute(ctx.Request.Context(), statistics.GetMonthlyTrendInput{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Months:    months,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMonthlyTrendResponse(output))
}

// CategoryRanking handles GET /statistics/categories requests.
func (c *StatisticsController) CategoryRanking(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	start, end, ok := queryRange(ctx)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit")
	if !ok {
		return
	}

	output, err := c.rankingUseCase.Execute(ctx.Request.Context(), statistics.GetCategoryRankingInput{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Limit:     limit,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryRankingResponse(output))
}

// PaymentMethods handles GET /statistics/payment-methods requests.
func (c *StatisticsController) PaymentMethods(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	start, end, ok := queryRange(ctx)
	if !ok {
		return
	}

	output, err := c.paymentMethodsUseCase.Execute(ctx.Request.Context(), statistics.GetPaymentMethodsInput{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentMethodsResponse(output))
}

// TimeOfDay handles GET /statistics/time-of-day requests.
func (c *StatisticsController) TimeOfDay(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	months, ok := queryInt(ctx, "months")
	if !ok {
		return
	}

	start, end, ok := queryRange(ctx)
	if !ok {
		return
	}

	output, err := c.timeOfDayUseCase.Execute(ctx.Request.Context(), statistics.GetTimeOfDayInput{
		UserID:    userID,
		Months:    months,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTimeOfDayResponse(output))
}

// Overview handles GET /statistics/overview requests.
func (c *StatisticsController) Overview(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	start, end, ok := queryRange(ctx)
	if !ok {
		return
	}

	output, err := c.overviewUseCase.Execute(ctx.Request.Context(), statistics.GetOverviewInput{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOverviewResponse(output))
}

// Reconcile handles POST /statistics/reconcile requests. It rebuilds every
// derived value of the caller from the ledger.
func (c *StatisticsController) Reconcile(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	report, err := c.coordinator.ReconcileUser(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReconcileResponse(report))
}

func queryRange(ctx *gin.Context) (start, end *time.Time, ok bool) {
	var err error
	if start, err = dto.ParseOptionalDate(ctx.Query("start_date")); err != nil {
		badRequest(ctx, "Invalid start_date", err)
		return nil, nil, false
	}
	if end, err = dto.ParseOptionalDate(ctx.Query("end_date")); err != nil {
		badRequest(ctx, "Invalid end_date", err)
		return nil, nil, false
	}
	return start, end, true
}

func queryInt(ctx *gin.Context, key string) (int, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(ctx, "Invalid "+key, err)
		return 0, false
	}
	return n, true
}
