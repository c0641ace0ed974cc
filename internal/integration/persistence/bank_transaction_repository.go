package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budget-planner/backend/internal/application/adapter"
	"github.com/budget-planner/backend/internal/domain/entity"
	domainerror "github.com/budget-planner/backend/internal/domain/error"
	"github.com/budget-planner/backend/internal/integration/persistence/model"
)

// bankTransactionRepository implements the adapter.BankTransactionRepository interface.
type bankTransactionRepository struct {
	db *gorm.DB
}

// NewBankTransactionRepository creates a new bank transaction repository instance.
func NewBankTransactionRepository(db *gorm.DB) adapter.BankTransactionRepository {
	return &bankTransactionRepository{
		db: db,
	}
}

// Create stores a newly ingested transaction.
func (r *bankTransactionRepository) Create(ctx context.Context, transaction *entity.BankTransaction) error {
	transactionModel := model.BankTransactionFromEntity(transaction)
	if err := r.db.WithContext(ctx).Create(transactionModel).Error; err != nil {
		return domainerror.NewPersistenceError("transaction create", err)
	}
	return nil
}

// FindByID retrieves a transaction by its ID.
func (r *bankTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BankTransaction, error) {
	var transactionModel model.BankTransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, domainerror.NewPersistenceError("transaction lookup", result.Error)
	}
	return transactionModel.ToEntity(), nil
}

// FindCreatedAfter retrieves transactions created after the cutoff, ordered
// by transaction date ascending so interval analysis sees them in order.
func (r *bankTransactionRepository) FindCreatedAfter(ctx context.Context, cutoff time.Time) ([]*entity.BankTransaction, error) {
	var transactionModels []model.BankTransactionModel
	result := r.db.WithContext(ctx).
		Where("created_at > ?", cutoff).
		Order("date ASC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, domainerror.NewPersistenceError("transaction window lookup", result.Error)
	}

	transactions := make([]*entity.BankTransaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntity()
	}
	return transactions, nil
}
