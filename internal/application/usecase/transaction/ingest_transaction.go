// Package transaction contains bank transaction ingestion use cases.
package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/application/usecase/recurring"
	"github.com/budget-planner/backend/internal/domain/entity"
)

// IngestTransactionInput represents a transaction delivered by the ingestion
// pipeline.
type IngestTransactionInput struct {
	MerchantName string
	Description  string
	Amount       decimal.Decimal
	Date         time.Time
	CategoryType string
	Category     string
}

// IngestTransactionOutput represents the result of storing and matching a
// transaction.
type IngestTransactionOutput struct {
	Transaction     *entity.BankTransaction
	MatchedPatterns int
}

// IngestTransactionUseCase stores a newly delivered transaction and runs the
// pattern matcher inline, as the ingestion pipeline does for every new
// transaction.
type IngestTransactionUseCase struct {
	transactionRepo adapter.BankTransactionRepository
	matcher         *recurring.ProcessTransactionUseCase
	now             func() time.Time
}

// NewIngestTransactionUseCase creates a new IngestTransactionUseCase instance.
func NewIngestTransactionUseCase(
	transactionRepo adapter.BankTransactionRepository,
	matcher *recurring.ProcessTransactionUseCase,
) *IngestTransactionUseCase {
	return &IngestTransactionUseCase{
		transactionRepo: transactionRepo,
		matcher:         matcher,
		now:             time.Now,
	}
}

// Execute stores the transaction and records occurrences on every matching
// pattern. Missing merchant or date fields are normalized to safe defaults
// rather than rejected; a matcher failure does not fail the ingestion.
func (uc *IngestTransactionUseCase) Execute(ctx context.Context, input IngestTransactionInput) (*IngestTransactionOutput, error) {
	date := input.Date
	if date.IsZero() {
		date = uc.now().UTC()
	}

	tx := entity.NewBankTransaction(
		input.MerchantName,
		input.Description,
		input.Amount,
		date,
		input.CategoryType,
		input.Category,
	)

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	matched := 0
	matchResult, err := uc.matcher.Execute(ctx, recurring.ProcessTransactionInput{Transaction: tx})
	if err != nil {
		slog.Warn("Pattern matching failed for ingested transaction",
			"transaction_id", tx.ID.String(),
			"error", err.Error(),
		)
	} else {
		matched = matchResult.MatchedPatterns
	}

	return &IngestTransactionOutput{
		Transaction:     tx,
		MatchedPatterns: matched,
	}, nil
}
