// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/domain/entity"
)

// CategoryTotal is an aggregated monthly amount for one category.
type CategoryTotal struct {
	Category     string
	MonthlyTotal decimal.Decimal
}

// RecurringPatternRepository defines the interface for recurring pattern persistence.
//
// Update performs an optimistic compare-and-update on the pattern's version:
// the write succeeds only if the stored version still equals the entity's
// version, otherwise domainerror.ErrPatternVersionConflict is returned. This
// is what makes per-identity read-modify-write sequences safe against the
// concurrent batch-merge / live-matcher race.
type RecurringPatternRepository interface {
	// Create inserts a new pattern.
	Create(ctx context.Context, pattern *entity.RecurringPattern) error

	// Update writes a modified pattern, enforcing the version check.
	Update(ctx context.Context, pattern *entity.RecurringPattern) error

	// FindByID retrieves a pattern by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurringPattern, error)

	// FindByIdentity retrieves the pattern with the exact (normalized merchant,
	// representative amount) identity, or domainerror.ErrPatternNotFound.
	FindByIdentity(ctx context.Context, merchantName string, amount decimal.Decimal) (*entity.RecurringPattern, error)

	// FindCandidates retrieves active patterns for the merchant whose amount
	// tolerance band contains the given amount.
	FindCandidates(ctx context.Context, merchantName string, amount decimal.Decimal) ([]*entity.RecurringPattern, error)

	// FindAllActive retrieves all active patterns ordered by merchant name.
	FindAllActive(ctx context.Context) ([]*entity.RecurringPattern, error)

	// FindActiveByStatus retrieves active patterns with the given status,
	// ordered by next expected date.
	FindActiveByStatus(ctx context.Context, status entity.RecurringStatus) ([]*entity.RecurringPattern, error)

	// FindDueWithin retrieves active patterns whose next expected date falls
	// inside [from, to].
	FindDueWithin(ctx context.Context, from, to time.Time) ([]*entity.RecurringPattern, error)

	// FindOverdue retrieves active patterns whose next expected date is before asOf.
	FindOverdue(ctx context.Context, asOf time.Time) ([]*entity.RecurringPattern, error)

	// AggregateMonthlyTotalsByCategory sums the monthly-equivalent amount of
	// active patterns per category.
	AggregateMonthlyTotalsByCategory(ctx context.Context) ([]CategoryTotal, error)
}
