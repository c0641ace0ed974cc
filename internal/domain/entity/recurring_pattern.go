package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurrenceFrequency classifies how often a recurring pattern repeats.
type RecurrenceFrequency string

const (
	FrequencyWeekly       RecurrenceFrequency = "WEEKLY"
	FrequencyBiWeekly     RecurrenceFrequency = "BI_WEEKLY"
	FrequencyMonthly      RecurrenceFrequency = "MONTHLY"
	FrequencyBiMonthly    RecurrenceFrequency = "BI_MONTHLY"
	FrequencyQuarterly    RecurrenceFrequency = "QUARTERLY"
	FrequencySemiAnnually RecurrenceFrequency = "SEMI_ANNUALLY"
	FrequencyAnnually     RecurrenceFrequency = "ANNUALLY"
	FrequencyCustom       RecurrenceFrequency = "CUSTOM"
)

// DefaultIntervalDays returns the nominal day count for the frequency.
// CUSTOM has no nominal interval and returns 0.
func (f RecurrenceFrequency) DefaultIntervalDays() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyBiWeekly:
		return 14
	case FrequencyMonthly:
		return 30
	case FrequencyBiMonthly:
		return 60
	case FrequencyQuarterly:
		return 90
	case FrequencySemiAnnually:
		return 180
	case FrequencyAnnually:
		return 365
	default:
		return 0
	}
}

// IsValid reports whether the frequency is one of the known values.
func (f RecurrenceFrequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyBiMonthly,
		FrequencyQuarterly, FrequencySemiAnnually, FrequencyAnnually, FrequencyCustom:
		return true
	}
	return false
}

// RecurringStatus is the lifecycle state of a recurring pattern.
type RecurringStatus string

const (
	StatusPendingConfirmation RecurringStatus = "PENDING_CONFIRMATION"
	StatusActive              RecurringStatus = "ACTIVE"
	StatusIrregular           RecurringStatus = "IRREGULAR"
	StatusEnded               RecurringStatus = "ENDED"
)

// IsValid reports whether the status is one of the known values.
func (s RecurringStatus) IsValid() bool {
	switch s {
	case StatusPendingConfirmation, StatusActive, StatusIrregular, StatusEnded:
		return true
	}
	return false
}

// PatternEvent is something that happened to a pattern which may advance
// its lifecycle state.
type PatternEvent string

const (
	// EventOccurrenceRecorded fires when the matcher records a new live occurrence.
	EventOccurrenceRecorded PatternEvent = "OCCURRENCE_RECORDED"
	// EventOverdue fires when the sweep finds the pattern significantly overdue.
	EventOverdue PatternEvent = "OVERDUE"
	// EventDormant fires when the sweep finds no occurrence far beyond the interval.
	EventDormant PatternEvent = "DORMANT"
	// EventDeactivated fires when the user deactivates the pattern.
	EventDeactivated PatternEvent = "DEACTIVATED"
)

type statusTransition struct {
	from  RecurringStatus
	event PatternEvent
}

// statusTransitions is the closed transition table. A (status, event) pair
// absent from the table is an illegal transition and leaves the status as is.
var statusTransitions = map[statusTransition]RecurringStatus{
	{StatusPendingConfirmation, EventOccurrenceRecorded}: StatusActive,
	{StatusActive, EventOccurrenceRecorded}:              StatusActive,
	{StatusIrregular, EventOccurrenceRecorded}:           StatusIrregular,
	{StatusActive, EventOverdue}:                         StatusIrregular,
	{StatusActive, EventDormant}:                         StatusEnded,
	{StatusIrregular, EventDormant}:                      StatusEnded,
	{StatusPendingConfirmation, EventDeactivated}:        StatusEnded,
	{StatusActive, EventDeactivated}:                     StatusEnded,
	{StatusIrregular, EventDeactivated}:                  StatusEnded,
}

// Transition returns the status reached from s by event. The second return
// value reports whether the transition is legal.
func (s RecurringStatus) Transition(event PatternEvent) (RecurringStatus, bool) {
	next, ok := statusTransitions[statusTransition{s, event}]
	if !ok {
		return s, false
	}
	return next, true
}

// CanTransitionTo reports whether target is reachable from s through the
// transition table. Staying on the current status is always allowed.
func (s RecurringStatus) CanTransitionTo(target RecurringStatus) bool {
	if s == target {
		return true
	}
	for key, next := range statusTransitions {
		if key.from == s && next == target {
			return true
		}
	}
	return false
}

// RecurringPattern is a detected repeating transaction archetype, identified
// by its normalized merchant name and representative amount.
type RecurringPattern struct {
	ID                     uuid.UUID
	MerchantName           string // Normalized; the clustering key, not a display name
	Amount                 decimal.Decimal
	AmountTolerancePercent float64
	Frequency              RecurrenceFrequency
	IntervalDays           int
	ConfidenceScore        float64
	Status                 RecurringStatus
	FirstOccurrence        time.Time
	LastOccurrence         time.Time
	NextExpectedDate       time.Time
	OccurrenceCount        int
	CategoryType           string
	Category               string
	UserConfirmed          bool
	IsActive               bool
	Notes                  string
	SourceTransactionIDs   []uuid.UUID
	Version                int64 // Optimistic concurrency token, managed by the repository
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsAmountWithinTolerance reports whether amount deviates from the pattern's
// representative amount by at most AmountTolerancePercent.
func (p *RecurringPattern) IsAmountWithinTolerance(amount decimal.Decimal) bool {
	tolerance := p.Amount.Abs().Mul(decimal.NewFromFloat(p.AmountTolerancePercent / 100.0))
	return amount.Sub(p.Amount).Abs().LessThanOrEqual(tolerance)
}

// CalculateNextExpectedDate derives the next expected occurrence from the
// last occurrence and the interval. NextExpectedDate must never be stored
// out of sync with this derivation.
func (p *RecurringPattern) CalculateNextExpectedDate() time.Time {
	if p.LastOccurrence.IsZero() {
		return p.FirstOccurrence.AddDate(0, 0, p.IntervalDays)
	}
	return p.LastOccurrence.AddDate(0, 0, p.IntervalDays)
}

// RecordOccurrence registers one live occurrence: advances the last
// occurrence if the date is newer, increments the occurrence count,
// recomputes the next expected date and applies the lifecycle transition.
func (p *RecurringPattern) RecordOccurrence(date time.Time) {
	if date.After(p.LastOccurrence) {
		p.LastOccurrence = date
	}
	p.OccurrenceCount++
	p.NextExpectedDate = p.CalculateNextExpectedDate()

	if next, ok := p.Status.Transition(EventOccurrenceRecorded); ok {
		p.Status = next
	}
	p.UpdatedAt = time.Now().UTC()
}

// Deactivate marks the pattern as ended on behalf of the user.
func (p *RecurringPattern) Deactivate() {
	if next, ok := p.Status.Transition(EventDeactivated); ok {
		p.Status = next
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
}

// DaysOverdue returns how many days past the next expected date the pattern
// is as of today, or 0 if it is not overdue.
func (p *RecurringPattern) DaysOverdue(today time.Time) int {
	if p.NextExpectedDate.IsZero() || !today.After(p.NextExpectedDate) {
		return 0
	}
	return DaysBetween(p.NextExpectedDate, today)
}

// DaysSinceLastOccurrence returns the days elapsed since the last occurrence.
func (p *RecurringPattern) DaysSinceLastOccurrence(today time.Time) int {
	if p.LastOccurrence.IsZero() {
		return 0
	}
	return DaysBetween(p.LastOccurrence, today)
}

// DaysBetween returns the whole days from a to b, ignoring time-of-day and
// timezone offsets.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
