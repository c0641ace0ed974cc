package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budget-planner/backend/internal/application/usecase/insight"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
	"github.com/budget-planner/backend/internal/integration/entrypoint/dto"
)

// InsightController handles AI spending insight endpoints.
type InsightController struct {
	getInsightUseCase *insight.GetSpendingInsightUseCase
}

// NewInsightController creates a new insight controller instance.
func NewInsightController(getInsightUseCase *insight.GetSpendingInsightUseCase) *InsightController {
	return &InsightController{
		getInsightUseCase: getInsightUseCase,
	}
}

// GetSpendingInsight handles GET /insights/spending requests.
func (c *InsightController) GetSpendingInsight(ctx *gin.Context) {
	output, err := c.getInsightUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleInsightError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSpendingInsightResponse(output))
}

// handleInsightError handles insight errors and returns appropriate HTTP responses.
func (c *InsightController) handleInsightError(ctx *gin.Context, err error) {
	var insightErr *domainerror.InsightError
	if errors.As(err, &insightErr) {
		ctx.JSON(c.getStatusCodeForInsightError(insightErr.Code), dto.ErrorResponse{
			Error: insightErr.Message,
			Code:  string(insightErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForInsightError maps insight error codes to HTTP status codes.
func (c *InsightController) getStatusCodeForInsightError(code domainerror.InsightErrorCode) int {
	switch code {
	case domainerror.ErrCodeInsightUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeNoPatternsForInsight:
		return http.StatusNotFound
	case domainerror.ErrCodeInsightGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
