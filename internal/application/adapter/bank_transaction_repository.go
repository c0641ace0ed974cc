package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budget-planner/backend/internal/domain/entity"
)

// BankTransactionRepository defines the interface for bank transaction persistence.
// The recurring detection core treats stored transactions as read-only input.
type BankTransactionRepository interface {
	// Create stores a newly ingested transaction.
	Create(ctx context.Context, transaction *entity.BankTransaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BankTransaction, error)

	// FindCreatedAfter retrieves transactions created after the cutoff,
	// ordered by transaction date ascending.
	FindCreatedAfter(ctx context.Context, cutoff time.Time) ([]*entity.BankTransaction, error)
}
