// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/domain/entity"
)

// BankTransactionModel represents the bank_transactions table in the database.
type BankTransactionModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MerchantName string          `gorm:"type:varchar(255);index"`
	Description  string          `gorm:"type:varchar(255)"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date         time.Time       `gorm:"type:date;not null;index"`
	CategoryType string          `gorm:"type:varchar(100)"`
	Category     string          `gorm:"type:varchar(100)"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for the BankTransactionModel.
func (BankTransactionModel) TableName() string {
	return "bank_transactions"
}

// ToEntity converts a BankTransactionModel to a domain BankTransaction entity.
func (m *BankTransactionModel) ToEntity() *entity.BankTransaction {
	return &entity.BankTransaction{
		ID:           m.ID,
		MerchantName: m.MerchantName,
		Description:  m.Description,
		Amount:       m.Amount,
		Date:         m.Date,
		CategoryType: m.CategoryType,
		Category:     m.Category,
		CreatedAt:    m.CreatedAt,
	}
}

// BankTransactionFromEntity converts a domain BankTransaction entity to a model.
func BankTransactionFromEntity(tx *entity.BankTransaction) *BankTransactionModel {
	return &BankTransactionModel{
		ID:           tx.ID,
		MerchantName: tx.MerchantName,
		Description:  tx.Description,
		Amount:       tx.Amount,
		Date:         tx.Date,
		CategoryType: tx.CategoryType,
		Category:     tx.Category,
		CreatedAt:    tx.CreatedAt,
	}
}
