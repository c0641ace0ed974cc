// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budget-planner/backend/internal/application/usecase/recurring"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
	"github.com/budget-planner/backend/internal/integration/entrypoint/dto"
)

// RecurringController handles recurring pattern endpoints.
type RecurringController struct {
	listUseCase          *recurring.ListPatternsUseCase
	dueSoonUseCase       *recurring.GetDueSoonUseCase
	overdueUseCase       *recurring.GetOverdueUseCase
	monthlyTotalsUseCase *recurring.GetMonthlyTotalsUseCase
	updateUseCase        *recurring.UpdatePatternUseCase
	deactivateUseCase    *recurring.DeactivatePatternUseCase
	analyzeUseCase       *recurring.AnalyzeTransactionsUseCase
	statusUseCase        *recurring.GetAnalysisStatusUseCase
	sweepUseCase         *recurring.SweepStatusesUseCase
}

// NewRecurringController creates a new recurring pattern controller instance.
func NewRecurringController(
	listUseCase *recurring.ListPatternsUseCase,
	dueSoonUseCase *recurring.GetDueSoonUseCase,
	overdueUseCase *recurring.GetOverdueUseCase,
	monthlyTotalsUseCase *recurring.GetMonthlyTotalsUseCase,
	updateUseCase *recurring.UpdatePatternUseCase,
	deactivateUseCase *recurring.DeactivatePatternUseCase,
	analyzeUseCase *recurring.AnalyzeTransactionsUseCase,
	statusUseCase *recurring.GetAnalysisStatusUseCase,
	sweepUseCase *recurring.SweepStatusesUseCase,
) *RecurringController {
	return &RecurringController{
		listUseCase:          listUseCase,
		dueSoonUseCase:       dueSoonUseCase,
		overdueUseCase:       overdueUseCase,
		monthlyTotalsUseCase: monthlyTotalsUseCase,
		updateUseCase:        updateUseCase,
		deactivateUseCase:    deactivateUseCase,
		analyzeUseCase:       analyzeUseCase,
		statusUseCase:        statusUseCase,
		sweepUseCase:         sweepUseCase,
	}
}

// List handles GET /recurring requests.
func (c *RecurringController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPatternListResponse(output.Patterns))
}

// GetDueSoon handles GET /recurring/due-soon requests.
func (c *RecurringController) GetDueSoon(ctx *gin.Context) {
	daysAhead := 7
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid days parameter",
			})
			return
		}
		daysAhead = parsed
	}

	input := recurring.GetDueSoonInput{
		DaysAhead: daysAhead,
	}

	output, err := c.dueSoonUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPatternListResponse(output.Patterns))
}

// GetOverdue handles GET /recurring/overdue requests.
func (c *RecurringController) GetOverdue(ctx *gin.Context) {
	output, err := c.overdueUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPatternListResponse(output.Patterns))
}

// GetMonthlyTotals handles GET /recurring/totals requests.
func (c *RecurringController) GetMonthlyTotals(ctx *gin.Context) {
	output, err := c.monthlyTotalsUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMonthlyTotalsResponse(output))
}

// Update handles PATCH /recurring/:id requests.
func (c *RecurringController) Update(ctx *gin.Context) {
	patternID, ok := c.parsePatternID(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePatternRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := recurring.UpdatePatternInput{
		ID:                     patternID,
		Frequency:              req.Frequency,
		IntervalDays:           req.IntervalDays,
		AmountTolerancePercent: req.AmountTolerancePercent,
		Status:                 req.Status,
		ConfidenceScore:        req.ConfidenceScore,
		CategoryType:           req.CategoryType,
		Category:               req.Category,
		Notes:                  req.Notes,
		UserConfirmed:          req.UserConfirmed,
		OccurrenceCount:        req.OccurrenceCount,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPatternResponse(output.Pattern))
}

// Deactivate handles DELETE /recurring/:id requests.
func (c *RecurringController) Deactivate(ctx *gin.Context) {
	patternID, ok := c.parsePatternID(ctx)
	if !ok {
		return
	}

	input := recurring.DeactivatePatternInput{
		ID: patternID,
	}

	output, err := c.deactivateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPatternResponse(output.Pattern))
}

// TriggerAnalysis handles POST /recurring/analyze requests.
func (c *RecurringController) TriggerAnalysis(ctx *gin.Context) {
	output, err := c.analyzeUseCase.Execute(ctx.Request.Context(), recurring.AnalyzeTransactionsInput{})
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	// 202 Accepted for async operation
	ctx.JSON(http.StatusAccepted, dto.TriggerAnalysisResponse{
		RunID:   output.RunID,
		Message: output.Message,
	})
}

// GetAnalysisStatus handles GET /recurring/analyze/status requests.
func (c *RecurringController) GetAnalysisStatus(ctx *gin.Context) {
	output, err := c.statusUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAnalysisStatusResponse(output))
}

// TriggerSweep handles POST /recurring/sweep requests.
func (c *RecurringController) TriggerSweep(ctx *gin.Context) {
	output, err := c.sweepUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleRecurringError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SweepResponse{
		Swept:   output.Swept,
		Updated: output.Updated,
	})
}

// parsePatternID extracts and validates the pattern ID from the URL.
func (c *RecurringController) parsePatternID(ctx *gin.Context) (uuid.UUID, bool) {
	patternID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid pattern ID format",
		})
		return uuid.Nil, false
	}
	return patternID, true
}

// handleRecurringError handles recurring pattern errors and returns appropriate HTTP responses.
func (c *RecurringController) handleRecurringError(ctx *gin.Context, err error) {
	var validationErr *domainerror.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: validationErr.Error(),
		})
		return
	}

	var recurringErr *domainerror.RecurringError
	if errors.As(err, &recurringErr) {
		ctx.JSON(c.getStatusCodeForRecurringError(recurringErr.Code), dto.ErrorResponse{
			Error: recurringErr.Message,
			Code:  string(recurringErr.Code),
		})
		return
	}

	if errors.Is(err, domainerror.ErrPatternNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Recurring pattern not found",
			Code:  string(domainerror.ErrCodePatternNotFound),
		})
		return
	}

	if errors.Is(err, domainerror.ErrPatternVersionConflict) {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: "Pattern was modified concurrently, retry the request",
			Code:  string(domainerror.ErrCodeVersionConflict),
		})
		return
	}

	if domainerror.IsPersistence(err) {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "A storage error occurred",
			Code:  string(domainerror.ErrCodePersistence),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForRecurringError maps recurring error codes to HTTP status codes.
func (c *RecurringController) getStatusCodeForRecurringError(code domainerror.RecurringErrorCode) int {
	switch code {
	case domainerror.ErrCodePatternNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidFrequency,
		domainerror.ErrCodeInvalidStatus,
		domainerror.ErrCodeInvalidConfidenceScore,
		domainerror.ErrCodeInvalidIntervalDays,
		domainerror.ErrCodeInvalidAmountTolerance,
		domainerror.ErrCodeInvalidOccurrenceCount:
		return http.StatusBadRequest
	case domainerror.ErrCodeIllegalStatusTransition:
		return http.StatusConflict
	case domainerror.ErrCodeAnalysisAlreadyRunning,
		domainerror.ErrCodeVersionConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
