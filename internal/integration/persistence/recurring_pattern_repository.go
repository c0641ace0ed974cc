// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
	"github.com/budget-planner/backend/internal/integration/persistence/model"
)

// recurringPatternRepository implements the adapter.RecurringPatternRepository interface.
type recurringPatternRepository struct {
	db *gorm.DB
}

// NewRecurringPatternRepository creates a new recurring pattern repository instance.
func NewRecurringPatternRepository(db *gorm.DB) adapter.RecurringPatternRepository {
	return &recurringPatternRepository{
		db: db,
	}
}

// Create inserts a new pattern.
func (r *recurringPatternRepository) Create(ctx context.Context, pattern *entity.RecurringPattern) error {
	patternModel := model.RecurringPatternFromEntity(pattern)
	if err := r.db.WithContext(ctx).Create(patternModel).Error; err != nil {
		return domainerror.NewPersistenceError("pattern create", err)
	}
	return nil
}

// Update writes a modified pattern. The write is conditional on the stored
// version still matching the entity's version; a concurrent writer makes the
// condition fail and the caller must re-read before retrying.
func (r *recurringPatternRepository) Update(ctx context.Context, pattern *entity.RecurringPattern) error {
	patternModel := model.RecurringPatternFromEntity(pattern)
	patternModel.Version = pattern.Version + 1

	result := r.db.WithContext(ctx).
		Model(&model.RecurringPatternModel{}).
		Where("id = ? AND version = ?", pattern.ID, pattern.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(patternModel)
	if result.Error != nil {
		return domainerror.NewPersistenceError("pattern update", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrPatternVersionConflict
	}

	pattern.Version = patternModel.Version
	return nil
}

// FindByID retrieves a pattern by its ID.
func (r *recurringPatternRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurringPattern, error) {
	var patternModel model.RecurringPatternModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&patternModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPatternNotFound
		}
		return nil, domainerror.NewPersistenceError("pattern lookup", result.Error)
	}
	return patternModel.ToEntity(), nil
}

// FindByIdentity retrieves the pattern with the exact (merchant, amount) identity.
func (r *recurringPatternRepository) FindByIdentity(ctx context.Context, merchantName string, amount decimal.Decimal) (*entity.RecurringPattern, error) {
	var patternModel model.RecurringPatternModel
	result := r.db.WithContext(ctx).
		Where("merchant_name = ? AND amount = ?", merchantName, amount).
		First(&patternModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrPatternNotFound
		}
		return nil, domainerror.NewPersistenceError("pattern identity lookup", result.Error)
	}
	return patternModel.ToEntity(), nil
}

// FindCandidates retrieves active patterns for the merchant whose tolerance
// band contains the amount. The band is evaluated in SQL against each
// pattern's own representative amount and tolerance.
func (r *recurringPatternRepository) FindCandidates(ctx context.Context, merchantName string, amount decimal.Decimal) ([]*entity.RecurringPattern, error) {
	var patternModels []model.RecurringPatternModel
	result := r.db.WithContext(ctx).
		Where("merchant_name = ?", merchantName).
		Where("is_active = ?", true).
		Where("status <> ?", string(entity.StatusEnded)).
		Where("ABS(amount - ?) <= ABS(amount) * amount_tolerance_percent / 100.0", amount).
		Order("amount ASC").
		Find(&patternModels)
	if result.Error != nil {
		return nil, domainerror.NewPersistenceError("pattern candidate lookup", result.Error)
	}
	return toEntities(patternModels), nil
}

// FindAllActive retrieves all active patterns ordered by merchant name.
func (r *recurringPatternRepository) FindAllActive(ctx context.Context) ([]*entity.RecurringPattern, error) {
	var patternModels []model.RecurringPatternModel
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("merchant_name ASC, amount ASC").
		Find(&patternModels)
	if result.Error != nil {
		return nil, domainerror.NewPersistenceError("active pattern listing", result.Error)
	}
	return toEntities(patternModels), nil
}

// FindActiveByStatus retrieves active patterns with the given status, ordered
// by next expected date.
func (r *recurringPatternRepository) FindActiveByStatus(ctx context.Context, status entity.RecurringStatus) ([]*entity.RecurringPattern, error) {
	var patternModels []model.RecurringPatternModel
	result := r.db.WithContext(ctx).
		Where("is_active = ? AND status = ?", true, string(status)).
		Order("next_expected_date ASC").
		Find(&patternModels)
	if result.Error != nil {
		return nil, domainerror.NewPersistenceError("pattern status listing", result.Error)
	}
	return toEntities(patternModels), nil
}

// FindDueWithin retrieves active patterns expected inside [from, to].
func (r *recurringPatternRepository) FindDueWithin(ctx context.Context, from, to time.Time) ([]*entity.RecurringPattern, error) {
	var patternModels []model.RecurringPatternModel
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("status <> ?", string(entity.StatusEnded)).
		Where("next_expected_date >= ? AND next_expected_date <= ?", from, to).
		Order("next_expected_date ASC").
		Find(&patternModels)
	if result.Error != nil {
		return nil, domainerror.NewPersistenceError("due pattern lookup", result.Error)
	}
	return toEntities(patternModels), nil
}

// FindOverdue retrieves active patterns whose expected date is before asOf.
func (r *recurringPatternRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]*entity.RecurringPattern, error) {
	var patternModels []model.RecurringPatternModel
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("status <> ?", string(entity.StatusEnded)).
		Where("next_expected_date < ?", asOf).
		Order("next_expected_date ASC").
		Find(&patternModels)
	if result.Error != nil {
		return nil, domainerror.NewPersistenceError("overdue pattern lookup", result.Error)
	}
	return toEntities(patternModels), nil
}

// AggregateMonthlyTotalsByCategory sums the monthly-equivalent amount of
// active patterns per category. Amounts are scaled by 30/interval so weekly
// and annual patterns contribute comparable figures.
func (r *recurringPatternRepository) AggregateMonthlyTotalsByCategory(ctx context.Context) ([]adapter.CategoryTotal, error) {
	var rows []struct {
		Category     string          `gorm:"column:category"`
		MonthlyTotal decimal.Decimal `gorm:"column:monthly_total"`
	}

	err := r.db.WithContext(ctx).
		Table("recurring_patterns").
		Select("category, SUM(ABS(amount) * 30.0 / interval_days) as monthly_total").
		Where("is_active = ?", true).
		Where("status <> ?", string(entity.StatusEnded)).
		Where("interval_days > 0").
		Group("category").
		Order("monthly_total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, domainerror.NewPersistenceError("monthly totals aggregation", err)
	}

	totals := make([]adapter.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = adapter.CategoryTotal{
			Category:     row.Category,
			MonthlyTotal: row.MonthlyTotal,
		}
	}
	return totals, nil
}

func toEntities(models []model.RecurringPatternModel) []*entity.RecurringPattern {
	patterns := make([]*entity.RecurringPattern, len(models))
	for i := range models {
		patterns[i] = models[i].ToEntity()
	}
	return patterns
}
