package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/budget"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	listUseCase     *budget.ListBudgetsUseCase
	getUseCase      *budget.GetBudgetUseCase
	createUseCase   *budget.CreateBudgetUseCase
	updateUseCase   *budget.UpdateBudgetUseCase
	deleteUseCase   *budget.DeleteBudgetUseCase
	summaryUseCase  *budget.GetSummaryUseCase
	renewUseCase    *budget.RenewBudgetUseCase
	renewalsUseCase *budget.ListRenewalsDueUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	listUseCase *budget.ListBudgetsUseCase,
	getUseCase *budget.GetBudgetUseCase,
	createUseCase *budget.CreateBudgetUseCase,
	updateUseCase *budget.UpdateBudgetUseCase,
	deleteUseCase *budget.DeleteBudgetUseCase,
	summaryUseCase *budget.GetSummaryUseCase,
	renewUseCase *budget.RenewBudgetUseCase,
	renewalsUseCase *budget.ListRenewalsDueUseCase,
) *BudgetController {
	return &BudgetController{
		listUseCase:     listUseCase,
		getUseCase:      getUseCase,
		createUseCase:   createUseCase,
		updateUseCase:   updateUseCase,
		deleteUseCase:   deleteUseCase,
		summaryUseCase:  summaryUseCase,
		renewUseCase:    renewUseCase,
		renewalsUseCase: renewalsUseCase,
	}
}

// List handles GET /budgets requests.
func (c *BudgetController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := budget.ListBudgetsInput{UserID: userID}
	if s := ctx.Query("status"); s != "" {
		status := entity.BudgetStatus(s)
		input.Status = &status
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetListResponse(output.Budgets))
}

// Get handles GET /budgets/:id requests.
func (c *BudgetController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathID(ctx, "budget")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), budget.GetBudgetInput{
		BudgetID: budgetID,
		UserID:   userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget.Budget, output.Budget.Category))
}

// Create handles POST /budgets requests.
func (c *BudgetController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	input, err := req.ToInput(userID)
	if err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBudgetResponse(output.Budget.Budget, output.Budget.Category))
}

// Update handles PATCH /budgets/:id requests.
func (c *BudgetController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathID(ctx, "budget")
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	input, err := req.ToInput(budgetID, userID)
	if err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget, nil))
}

// Delete handles DELETE /budgets/:id requests.
func (c *BudgetController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathID(ctx, "budget")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), budget.DeleteBudgetInput{
		BudgetID: budgetID,
		UserID:   userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Summary handles GET /budgets/summary requests.
func (c *BudgetController) Summary(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	asOf, err := dto.ParseOptionalDate(ctx.Query("as_of"))
	if err != nil {
		badRequest(ctx, "Invalid as_of", err)
		return
	}

	summary, err := c.summaryUseCase.Execute(ctx.Request.Context(), budget.GetSummaryInput{
		UserID: userID,
		AsOf:   asOf,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetSummaryResponse(summary))
}

// Renew handles POST /budgets/:id/renew requests.
func (c *BudgetController) Renew(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathID(ctx, "budget")
	if !ok {
		return
	}

	output, err := c.renewUseCase.Execute(ctx.Request.Context(), budget.RenewBudgetInput{
		BudgetID: budgetID,
		UserID:   userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToRenewBudgetResponse(output))
}

// RenewalsDue handles GET /budgets/renewals requests.
func (c *BudgetController) RenewalsDue(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.renewalsUseCase.Execute(ctx.Request.Context(), budget.ListRenewalsDueInput{
		UserID: &userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]dto.BudgetResponse, len(output.Budgets))
	for i, b := range output.Budgets {
		items[i] = dto.ToBudgetResponse(b, nil)
	}
	ctx.JSON(http.StatusOK, dto.BudgetListResponse{Budgets: items})
}
