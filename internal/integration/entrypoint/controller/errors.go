// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

var kindStatus = map[domainerror.ErrorKind]int{
	domainerror.KindValidation:       http.StatusBadRequest,
	domainerror.KindReference:        http.StatusNotFound,
	domainerror.KindTypeMismatch:     http.StatusUnprocessableEntity,
	domainerror.KindConflict:         http.StatusConflict,
	domainerror.KindRecomputeFailure: http.StatusServiceUnavailable,
	domainerror.KindStoreUnavailable: http.StatusServiceUnavailable,
	domainerror.KindUnauthenticated:  http.StatusUnauthorized,
}

// respondError maps a domain error onto its HTTP status and error body.
func respondError(ctx *gin.Context, err error) {
	kind := domainerror.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx.Request.Context(), "Unhandled request error",
			"path", ctx.FullPath(),
			"error", err,
		)
		message = "Internal server error"
	}

	ctx.JSON(status, dto.ErrorResponse{
		Error:     message,
		Code:      domainerror.CodeOf(err),
		Kind:      string(kind),
		Retryable: kind.Retryable(),
	})
}

func badRequest(ctx *gin.Context, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
		Kind:  string(domainerror.KindValidation),
	}
	if err != nil {
		response.Details = err.Error()
	}
	ctx.JSON(http.StatusBadRequest, response)
}

// requireUser reads the authenticated user or writes a 401.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
			Kind:  string(domainerror.KindUnauthenticated),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id route parameter or writes a 400.
func pathID(ctx *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid "+what+" ID format", err)
		return uuid.Nil, false
	}
	return id, true
}
