package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/budget-planner/backend/internal/domain/entity"
)

// RecurringPatternModel represents the recurring_patterns table in the database.
// The (merchant_name, amount) pair is the natural dedup key; version backs the
// optimistic compare-and-update on every write.
type RecurringPatternModel struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MerchantName           string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_pattern_identity"`
	Amount                 decimal.Decimal `gorm:"type:decimal(15,2);not null;uniqueIndex:idx_pattern_identity"`
	AmountTolerancePercent float64         `gorm:"not null;default:10.0"`
	Frequency              string          `gorm:"type:varchar(20);not null"`
	IntervalDays           int             `gorm:"not null"`
	ConfidenceScore        float64         `gorm:"not null"`
	Status                 string          `gorm:"type:varchar(30);not null;index"`
	FirstOccurrence        time.Time       `gorm:"type:date;not null"`
	LastOccurrence         time.Time       `gorm:"type:date"`
	NextExpectedDate       time.Time       `gorm:"type:date;index"`
	OccurrenceCount        int             `gorm:"not null;default:0"`
	CategoryType           string          `gorm:"type:varchar(100)"`
	Category               string          `gorm:"type:varchar(100)"`
	UserConfirmed          bool            `gorm:"default:false"`
	IsActive               bool            `gorm:"not null;index"`
	Notes                  string          `gorm:"type:text"`
	SourceTransactionIDs   pq.StringArray  `gorm:"type:text[]"`
	Version                int64           `gorm:"not null;default:0"`
	CreatedAt              time.Time       `gorm:"not null"`
	UpdatedAt              time.Time       `gorm:"not null"`
}

// TableName returns the table name for the RecurringPatternModel.
func (RecurringPatternModel) TableName() string {
	return "recurring_patterns"
}

// ToEntity converts a RecurringPatternModel to a domain RecurringPattern entity.
func (m *RecurringPatternModel) ToEntity() *entity.RecurringPattern {
	sourceIDs := make([]uuid.UUID, 0, len(m.SourceTransactionIDs))
	for _, raw := range m.SourceTransactionIDs {
		if id, err := uuid.Parse(raw); err == nil {
			sourceIDs = append(sourceIDs, id)
		}
	}

	return &entity.RecurringPattern{
		ID:                     m.ID,
		MerchantName:           m.MerchantName,
		Amount:                 m.Amount,
		AmountTolerancePercent: m.AmountTolerancePercent,
		Frequency:              entity.RecurrenceFrequency(m.Frequency),
		IntervalDays:           m.IntervalDays,
		ConfidenceScore:        m.ConfidenceScore,
		Status:                 entity.RecurringStatus(m.Status),
		FirstOccurrence:        m.FirstOccurrence,
		LastOccurrence:         m.LastOccurrence,
		NextExpectedDate:       m.NextExpectedDate,
		OccurrenceCount:        m.OccurrenceCount,
		CategoryType:           m.CategoryType,
		Category:               m.Category,
		UserConfirmed:          m.UserConfirmed,
		IsActive:               m.IsActive,
		Notes:                  m.Notes,
		SourceTransactionIDs:   sourceIDs,
		Version:                m.Version,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// RecurringPatternFromEntity converts a domain RecurringPattern entity to a model.
func RecurringPatternFromEntity(p *entity.RecurringPattern) *RecurringPatternModel {
	sourceIDs := make(pq.StringArray, len(p.SourceTransactionIDs))
	for i, id := range p.SourceTransactionIDs {
		sourceIDs[i] = id.String()
	}

	return &RecurringPatternModel{
		ID:                     p.ID,
		MerchantName:           p.MerchantName,
		Amount:                 p.Amount,
		AmountTolerancePercent: p.AmountTolerancePercent,
		Frequency:              string(p.Frequency),
		IntervalDays:           p.IntervalDays,
		ConfidenceScore:        p.ConfidenceScore,
		Status:                 string(p.Status),
		FirstOccurrence:        p.FirstOccurrence,
		LastOccurrence:         p.LastOccurrence,
		NextExpectedDate:       p.NextExpectedDate,
		OccurrenceCount:        p.OccurrenceCount,
		CategoryType:           p.CategoryType,
		Category:               p.Category,
		UserConfirmed:          p.UserConfirmed,
		IsActive:               p.IsActive,
		Notes:                  p.Notes,
		SourceTransactionIDs:   sourceIDs,
		Version:                p.Version,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
