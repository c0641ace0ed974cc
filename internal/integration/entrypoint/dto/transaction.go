package dto

import (
	"time"

	"github.com/budget-planner/backend/internal/application/usecase/transaction"
)

// IngestTransactionRequest represents the request body for transaction ingestion.
type IngestTransactionRequest struct {
	MerchantName string  `json:"merchant_name" binding:"required,min=1,max=255"`
	Description  string  `json:"description,omitempty" binding:"omitempty,max=1000"`
	Amount       float64 `json:"amount" binding:"required"`
	Date         string  `json:"date,omitempty"`
	CategoryType string  `json:"category_type,omitempty" binding:"omitempty,max=100"`
	Category     string  `json:"category,omitempty" binding:"omitempty,max=100"`
}

// IngestTransactionResponse represents the response for transaction ingestion.
type IngestTransactionResponse struct {
	ID              string    `json:"id"`
	MerchantName    string    `json:"merchant_name"`
	Description     string    `json:"description,omitempty"`
	Amount          string    `json:"amount"`
	Date            string    `json:"date"`
	CategoryType    string    `json:"category_type,omitempty"`
	Category        string    `json:"category,omitempty"`
	MatchedPatterns int       `json:"matched_patterns"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToIngestTransactionResponse converts an ingestion output to its DTO.
func ToIngestTransactionResponse(output *transaction.IngestTransactionOutput) IngestTransactionResponse {
	tx := output.Transaction
	return IngestTransactionResponse{
		ID:              tx.ID.String(),
		MerchantName:    tx.MerchantName,
		Description:     tx.Description,
		Amount:          tx.Amount.String(),
		Date:            tx.Date.Format("2006-01-02"),
		CategoryType:    tx.CategoryType,
		Category:        tx.Category,
		MatchedPatterns: output.MatchedPatterns,
		CreatedAt:       tx.CreatedAt,
	}
}
