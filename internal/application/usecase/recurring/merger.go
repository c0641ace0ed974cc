package recurring

import (
	"time"

	"github.com/budget-planner/backend/internal/domain/entity"
)

// mergeIntoExisting reconciles a freshly built candidate into the stored
// pattern with the same (merchant, amount) identity. This is the sole merge
// path; a re-detected identity never overwrites the stored entity wholesale.
//
// Confidence becomes a 70/30 weighted blend favouring the existing score,
// the occurrence count takes the larger of the two (re-running analysis over
// an unchanged window must not inflate it) and the last occurrence is adopted
// only when the candidate's is strictly newer, in which case the next
// expected date is recomputed. All other fields are left untouched.
func mergeIntoExisting(existing, candidate *entity.RecurringPattern) {
	existing.ConfidenceScore = 0.7*existing.ConfidenceScore + 0.3*candidate.ConfidenceScore

	if candidate.OccurrenceCount > existing.OccurrenceCount {
		existing.OccurrenceCount = candidate.OccurrenceCount
	}

	if candidate.LastOccurrence.After(existing.LastOccurrence) {
		existing.LastOccurrence = candidate.LastOccurrence
		existing.NextExpectedDate = existing.CalculateNextExpectedDate()
	}

	existing.UpdatedAt = time.Now().UTC()
}
