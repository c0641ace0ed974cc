// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankTransaction represents a single bank transaction observed from an
// aggregator feed. Transactions are immutable once stored; the recurring
// detection core only ever reads them.
type BankTransaction struct {
	ID           uuid.UUID
	MerchantName string
	Description  string
	Amount       decimal.Decimal // Negative for outflows, positive for income
	Date         time.Time
	CategoryType string
	Category     string
	CreatedAt    time.Time
}

// NewBankTransaction creates a new BankTransaction entity.
func NewBankTransaction(
	merchantName string,
	description string,
	amount decimal.Decimal,
	date time.Time,
	categoryType string,
	category string,
) *BankTransaction {
	return &BankTransaction{
		ID:           uuid.New(),
		MerchantName: merchantName,
		Description:  description,
		Amount:       amount,
		Date:         date,
		CategoryType: categoryType,
		Category:     category,
		CreatedAt:    time.Now().UTC(),
	}
}
