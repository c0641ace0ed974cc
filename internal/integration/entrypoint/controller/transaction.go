package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/application/usecase/transaction"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
	"github.com/budget-planner/backend/internal/integration/entrypoint/dto"
)

// TransactionController handles bank transaction ingestion endpoints.
type TransactionController struct {
	ingestUseCase *transaction.IngestTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(ingestUseCase *transaction.IngestTransactionUseCase) *TransactionController {
	return &TransactionController{
		ingestUseCase: ingestUseCase,
	}
}

// Ingest handles POST /transactions requests.
func (c *TransactionController) Ingest(ctx *gin.Context) {
	var req dto.IngestTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date format, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidTransactionDate),
			})
			return
		}
		date = parsed
	}

	input := transaction.IngestTransactionInput{
		MerchantName: req.MerchantName,
		Description:  req.Description,
		Amount:       decimal.NewFromFloat(req.Amount),
		Date:         date,
		CategoryType: req.CategoryType,
		Category:     req.Category,
	}

	output, err := c.ingestUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToIngestTransactionResponse(output))
}

// handleTransactionError handles transaction errors and returns appropriate HTTP responses.
func (c *TransactionController) handleTransactionError(ctx *gin.Context, err error) {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		statusCode := http.StatusBadRequest
		if txnErr.Code == domainerror.ErrCodeTransactionNotFound {
			statusCode = http.StatusNotFound
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
