package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/application/usecase/transaction"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// TransactionController handles ledger entry endpoints.
type TransactionController struct {
	listUseCase    *transaction.ListTransactionsUseCase
	getUseCase     *transaction.GetTransactionUseCase
	createUseCase  *transaction.CreateTransactionUseCase
	importUseCase  *transaction.ImportTransactionsUseCase
	updateUseCase  *transaction.UpdateTransactionUseCase
	deleteUseCase  *transaction.DeleteTransactionUseCase
	archiveUseCase *transaction.ArchiveTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	getUseCase *transaction.GetTransactionUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
	importUseCase *transaction.ImportTransactionsUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	archiveUseCase *transaction.ArchiveTransactionUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
		createUseCase:  createUseCase,
		importUseCase:  importUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		archiveUseCase: archiveUseCase,
	}
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{
		UserID:        userID,
		Status:        entity.TransactionStatus(ctx.Query("status")),
		SortBy:        adapter.TransactionSortField(ctx.Query("sort_by")),
		SortAscending: ctx.Query("order") == "asc",
	}

	if t := ctx.Query("type"); t != "" {
		txnType := entity.TransactionType(t)
		input.Type = &txnType
	}
	if pm := ctx.Query("payment_method"); pm != "" {
		method := entity.PaymentMethod(pm)
		input.PaymentMethod = &method
	}
	if ids := ctx.Query("category_ids"); ids != "" {
		for _, raw := range strings.Split(ids, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				badRequest(ctx, "Invalid category ID format", err)
				return
			}
			input.CategoryIDs = append(input.CategoryIDs, id)
		}
	}

	var err error
	if input.StartDate, err = dto.ParseOptionalDate(ctx.Query("start_date")); err != nil {
		badRequest(ctx, "Invalid start_date", err)
		return
	}
	if input.EndDate, err = dto.ParseOptionalDate(ctx.Query("end_date")); err != nil {
		badRequest(ctx, "Invalid end_date", err)
		return
	}
	if page := ctx.Query("page"); page != "" {
		if input.Page, err = strconv.Atoi(page); err != nil {
			badRequest(ctx, "Invalid page", err)
			return
		}
	}
	if limit := ctx.Query("limit"); limit != "" {
		if input.Limit, err = strconv.Atoi(limit); err != nil {
			badRequest(ctx, "Invalid limit", err)
			return
		}
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Get handles GET /transactions/:id requests.
func (c *TransactionController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := pathID(ctx, "transaction")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), transaction.GetTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.TransactionEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	entry, err := req.ToEntryInput()
	if err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), transaction.CreateTransactionInput{
		UserID: userID,
		Entry:  entry,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// Import handles POST /transactions/import requests.
func (c *TransactionController) Import(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.ImportTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	entries := make([]transaction.EntryInput, len(req.Transactions))
	for i, r := range req.Transactions {
		entry, err := r.ToEntryInput()
		if err != nil {
			badRequest(ctx, "Invalid transaction at index "+strconv.Itoa(i), err)
			return
		}
		entries[i] = entry
	}

	output, err := c.importUseCase.Execute(ctx.Request.Context(), transaction.ImportTransactionsInput{
		UserID:  userID,
		Entries: entries,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ImportTransactionsResponse{
		Imported:     len(output.Transactions),
		Transactions: dto.ToTransactionResponses(output.Transactions),
	})
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := pathID(ctx, "transaction")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	input, err := req.ToInput(transactionID, userID)
	if err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := pathID(ctx, "transaction")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Archive handles POST /transactions/:id/archive requests.
func (c *TransactionController) Archive(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	transactionID, ok := pathID(ctx, "transaction")
	if !ok {
		return
	}

	err := c.archiveUseCase.Execute(ctx.Request.Context(), transaction.ArchiveTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
