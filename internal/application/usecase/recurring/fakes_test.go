package recurring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
)

// fakePatternRepo is an in-memory RecurringPatternRepository with the same
// version semantics as the real one: Update succeeds only when the caller's
// version matches the stored version.
type fakePatternRepo struct {
	mu       sync.Mutex
	patterns map[uuid.UUID]*entity.RecurringPattern
}

func newFakePatternRepo() *fakePatternRepo {
	return &fakePatternRepo{patterns: make(map[uuid.UUID]*entity.RecurringPattern)}
}

func copyPattern(p *entity.RecurringPattern) *entity.RecurringPattern {
	clone := *p
	clone.SourceTransactionIDs = append([]uuid.UUID(nil), p.SourceTransactionIDs...)
	return &clone
}

func (r *fakePatternRepo) Create(_ context.Context, pattern *entity.RecurringPattern) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns[pattern.ID] = copyPattern(pattern)
	return nil
}

func (r *fakePatternRepo) Update(_ context.Context, pattern *entity.RecurringPattern) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.patterns[pattern.ID]
	if !ok {
		return domainerror.ErrPatternNotFound
	}
	if stored.Version != pattern.Version {
		return domainerror.ErrPatternVersionConflict
	}

	clone := copyPattern(pattern)
	clone.Version = pattern.Version + 1
	r.patterns[pattern.ID] = clone
	pattern.Version = clone.Version
	return nil
}

func (r *fakePatternRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RecurringPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.patterns[id]
	if !ok {
		return nil, domainerror.ErrPatternNotFound
	}
	return copyPattern(stored), nil
}

func (r *fakePatternRepo) FindByIdentity(_ context.Context, merchantName string, amount decimal.Decimal) (*entity.RecurringPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.patterns {
		if stored.MerchantName == merchantName && stored.Amount.Equal(amount) {
			return copyPattern(stored), nil
		}
	}
	return nil, domainerror.ErrPatternNotFound
}

func (r *fakePatternRepo) FindCandidates(_ context.Context, merchantName string, amount decimal.Decimal) ([]*entity.RecurringPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var candidates []*entity.RecurringPattern
	for _, stored := range r.patterns {
		if stored.MerchantName != merchantName || !stored.IsActive || stored.Status == entity.StatusEnded {
			continue
		}
		if stored.IsAmountWithinTolerance(amount) {
			candidates = append(candidates, copyPattern(stored))
		}
	}
	return candidates, nil
}

func (r *fakePatternRepo) FindAllActive(_ context.Context) ([]*entity.RecurringPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active []*entity.RecurringPattern
	for _, stored := range r.patterns {
		if stored.IsActive {
			active = append(active, copyPattern(stored))
		}
	}
	return active, nil
}

func (r *fakePatternRepo) FindActiveByStatus(_ context.Context, status entity.RecurringStatus) ([]*entity.RecurringPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.RecurringPattern
	for _, stored := range r.patterns {
		if stored.IsActive && stored.Status == status {
			matched = append(matched, copyPattern(stored))
		}
	}
	return matched, nil
}

func (r *fakePatternRepo) FindDueWithin(_ context.Context, from, to time.Time) ([]*entity.RecurringPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*entity.RecurringPattern
	for _, stored := range r.patterns {
		if !stored.IsActive || stored.Status == entity.StatusEnded {
			continue
		}
		if !stored.NextExpectedDate.Before(from) && !stored.NextExpectedDate.After(to) {
			due = append(due, copyPattern(stored))
		}
	}
	return due, nil
}

func (r *fakePatternRepo) FindOverdue(_ context.Context, asOf time.Time) ([]*entity.RecurringPattern, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var overdue []*entity.RecurringPattern
	for _, stored := range r.patterns {
		if !stored.IsActive || stored.Status == entity.StatusEnded {
			continue
		}
		if stored.NextExpectedDate.Before(asOf) {
			overdue = append(overdue, copyPattern(stored))
		}
	}
	return overdue, nil
}

func (r *fakePatternRepo) AggregateMonthlyTotalsByCategory(_ context.Context) ([]adapter.CategoryTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byCategory := make(map[string]decimal.Decimal)
	for _, stored := range r.patterns {
		if !stored.IsActive || stored.Status == entity.StatusEnded || stored.IntervalDays <= 0 {
			continue
		}
		monthly := stored.Amount.Abs().Mul(decimal.NewFromInt(30)).Div(decimal.NewFromInt(int64(stored.IntervalDays)))
		byCategory[stored.Category] = byCategory[stored.Category].Add(monthly)
	}

	totals := make([]adapter.CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, adapter.CategoryTotal{Category: category, MonthlyTotal: total})
	}
	return totals, nil
}

// all returns a snapshot of every stored pattern.
func (r *fakePatternRepo) all() []*entity.RecurringPattern {
	r.mu.Lock()
	defer r.mu.Unlock()

	patterns := make([]*entity.RecurringPattern, 0, len(r.patterns))
	for _, stored := range r.patterns {
		patterns = append(patterns, copyPattern(stored))
	}
	return patterns
}

// fakeTransactionRepo is an in-memory BankTransactionRepository.
type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []*entity.BankTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *entity.BankTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *tx
	r.transactions = append(r.transactions, &clone)
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.BankTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.transactions {
		if tx.ID == id {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, domainerror.ErrTransactionNotFound
}

func (r *fakeTransactionRepo) FindCreatedAfter(_ context.Context, cutoff time.Time) ([]*entity.BankTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.BankTransaction
	for _, tx := range r.transactions {
		if tx.CreatedAt.After(cutoff) {
			clone := *tx
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

// testTransaction builds a transaction for a merchant, amount and date.
func testTransaction(merchant string, amount float64, date time.Time) *entity.BankTransaction {
	return entity.NewBankTransaction(merchant, "", decimal.NewFromFloat(amount), date, "expense", "Subscriptions")
}
