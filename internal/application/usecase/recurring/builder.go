package recurring

import (
	"time"

	"github.com/google/uuid"

	"github.com/budget-planner/backend/internal/domain/entity"
	"github.com/budget-planner/backend/internal/domain/valueobject"
)

// buildPattern assembles a RecurringPattern from a qualifying cluster and its
// interval analysis. The representative amount is the cluster anchor and the
// category comes from the chronologically last transaction. A pattern that is
// already more than one interval past its next expected date at creation time
// starts out ENDED instead of PENDING_CONFIRMATION.
func buildPattern(
	merchantName string,
	cluster *amountCluster,
	analysis intervalAnalysis,
	today time.Time,
	cfg valueobject.DetectionConfig,
) *entity.RecurringPattern {
	first := cluster.Transactions[0]
	last := cluster.Transactions[len(cluster.Transactions)-1]

	sourceIDs := make([]uuid.UUID, len(cluster.Transactions))
	for i, tx := range cluster.Transactions {
		sourceIDs[i] = tx.ID
	}

	now := time.Now().UTC()
	pattern := &entity.RecurringPattern{
		ID:                     uuid.New(),
		MerchantName:           merchantName,
		Amount:                 cluster.Anchor,
		AmountTolerancePercent: cfg.AmountTolerancePercent,
		Frequency:              analysis.Frequency,
		IntervalDays:           analysis.IntervalDays,
		ConfidenceScore:        analysis.Confidence,
		FirstOccurrence:        first.Date,
		LastOccurrence:         last.Date,
		OccurrenceCount:        len(cluster.Transactions),
		CategoryType:           last.CategoryType,
		Category:               last.Category,
		IsActive:               true,
		SourceTransactionIDs:   sourceIDs,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	pattern.NextExpectedDate = pattern.CalculateNextExpectedDate()

	if today.After(pattern.NextExpectedDate.AddDate(0, 0, pattern.IntervalDays)) {
		pattern.Status = entity.StatusEnded
	} else {
		pattern.Status = entity.StatusPendingConfirmation
	}

	return pattern
}
