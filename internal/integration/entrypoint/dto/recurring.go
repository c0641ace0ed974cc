package dto

import (
	"time"

	"github.com/budget-planner/backend/internal/application/usecase/recurring"
	"github.com/budget-planner/backend/internal/domain/entity"
)

// UpdatePatternRequest represents the request body for a manual pattern edit.
type UpdatePatternRequest struct {
	Frequency              *string  `json:"frequency,omitempty" binding:"omitempty,oneof=WEEKLY BI_WEEKLY MONTHLY BI_MONTHLY QUARTERLY SEMI_ANNUALLY ANNUALLY CUSTOM"`
	IntervalDays           *int     `json:"interval_days,omitempty"`
	AmountTolerancePercent *float64 `json:"amount_tolerance_percent,omitempty"`
	Status                 *string  `json:"status,omitempty"`
	ConfidenceScore        *float64 `json:"confidence_score,omitempty"`
	CategoryType           *string  `json:"category_type,omitempty"`
	Category               *string  `json:"category,omitempty"`
	Notes                  *string  `json:"notes,omitempty" binding:"omitempty,max=1000"`
	UserConfirmed          *bool    `json:"user_confirmed,omitempty"`
	OccurrenceCount        *int     `json:"occurrence_count,omitempty"`
}

// PatternResponse represents a recurring pattern in API responses.
type PatternResponse struct {
	ID                     string    `json:"id"`
	MerchantName           string    `json:"merchant_name"`
	Amount                 string    `json:"amount"`
	AmountTolerancePercent float64   `json:"amount_tolerance_percent"`
	Frequency              string    `json:"frequency"`
	IntervalDays           int       `json:"interval_days"`
	ConfidenceScore        float64   `json:"confidence_score"`
	Status                 string    `json:"status"`
	FirstOccurrence        string    `json:"first_occurrence"`
	LastOccurrence         string    `json:"last_occurrence"`
	NextExpectedDate       string    `json:"next_expected_date"`
	OccurrenceCount        int       `json:"occurrence_count"`
	CategoryType           string    `json:"category_type"`
	Category               string    `json:"category"`
	UserConfirmed          bool      `json:"user_confirmed"`
	IsActive               bool      `json:"is_active"`
	Notes                  string    `json:"notes,omitempty"`
	SourceTransactionIDs   []string  `json:"source_transaction_ids,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// PatternListResponse represents the response for listing patterns.
type PatternListResponse struct {
	Patterns []PatternResponse `json:"patterns"`
	Total    int               `json:"total"`
}

// CategoryTotalResponse represents one category's monthly recurring total.
type CategoryTotalResponse struct {
	Category     string `json:"category"`
	MonthlyTotal string `json:"monthly_total"`
}

// MonthlyTotalsResponse represents the response for the monthly totals query.
type MonthlyTotalsResponse struct {
	Totals []CategoryTotalResponse `json:"totals"`
}

// TriggerAnalysisResponse represents the response for triggering a batch analysis.
type TriggerAnalysisResponse struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

// AnalysisRunResponse represents one analysis run in status responses.
type AnalysisRunResponse struct {
	RunID               string     `json:"run_id"`
	StartedAt           time.Time  `json:"started_at"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
	PatternsCreated     int        `json:"patterns_created"`
	PatternsUpdated     int        `json:"patterns_updated"`
	MerchantsAnalyzed   int        `json:"merchants_analyzed"`
	MerchantFailures    int        `json:"merchant_failures"`
	TransactionsScanned int        `json:"transactions_scanned"`
	Error               string     `json:"error,omitempty"`
}

// AnalysisStatusResponse represents the response for the analysis status query.
type AnalysisStatusResponse struct {
	IsRunning  bool                 `json:"is_running"`
	CurrentRun *AnalysisRunResponse `json:"current_run,omitempty"`
	LastRun    *AnalysisRunResponse `json:"last_run,omitempty"`
}

// SweepResponse represents the response for a manual status sweep.
type SweepResponse struct {
	Swept   int `json:"swept"`
	Updated int `json:"updated"`
}

// ToPatternResponse converts a RecurringPattern entity to a PatternResponse DTO.
func ToPatternResponse(p *entity.RecurringPattern) PatternResponse {
	sourceIDs := make([]string, len(p.SourceTransactionIDs))
	for i, id := range p.SourceTransactionIDs {
		sourceIDs[i] = id.String()
	}

	return PatternResponse{
		ID:                     p.ID.String(),
		MerchantName:           p.MerchantName,
		Amount:                 p.Amount.String(),
		AmountTolerancePercent: p.AmountTolerancePercent,
		Frequency:              string(p.Frequency),
		IntervalDays:           p.IntervalDays,
		ConfidenceScore:        p.ConfidenceScore,
		Status:                 string(p.Status),
		FirstOccurrence:        p.FirstOccurrence.Format("2006-01-02"),
		LastOccurrence:         p.LastOccurrence.Format("2006-01-02"),
		NextExpectedDate:       p.NextExpectedDate.Format("2006-01-02"),
		OccurrenceCount:        p.OccurrenceCount,
		CategoryType:           p.CategoryType,
		Category:               p.Category,
		UserConfirmed:          p.UserConfirmed,
		IsActive:               p.IsActive,
		Notes:                  p.Notes,
		SourceTransactionIDs:   sourceIDs,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

// ToPatternListResponse converts pattern entities to a PatternListResponse DTO.
func ToPatternListResponse(patterns []*entity.RecurringPattern) PatternListResponse {
	responses := make([]PatternResponse, len(patterns))
	for i, p := range patterns {
		responses[i] = ToPatternResponse(p)
	}
	return PatternListResponse{
		Patterns: responses,
		Total:    len(responses),
	}
}

// ToMonthlyTotalsResponse converts the monthly totals output to its DTO.
func ToMonthlyTotalsResponse(output *recurring.GetMonthlyTotalsOutput) MonthlyTotalsResponse {
	totals := make([]CategoryTotalResponse, len(output.Totals))
	for i, t := range output.Totals {
		totals[i] = CategoryTotalResponse{
			Category:     t.Category,
			MonthlyTotal: t.MonthlyTotal.StringFixed(2),
		}
	}
	return MonthlyTotalsResponse{Totals: totals}
}

// ToAnalysisStatusResponse converts the analysis status output to its DTO.
func ToAnalysisStatusResponse(output *recurring.GetAnalysisStatusOutput) AnalysisStatusResponse {
	return AnalysisStatusResponse{
		IsRunning:  output.IsRunning,
		CurrentRun: toAnalysisRunResponse(output.CurrentRun),
		LastRun:    toAnalysisRunResponse(output.LastRun),
	}
}

func toAnalysisRunResponse(run *recurring.RunState) *AnalysisRunResponse {
	if run == nil {
		return nil
	}

	response := &AnalysisRunResponse{
		RunID:      run.RunID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Error,
	}
	if run.Result != nil {
		response.PatternsCreated = run.Result.PatternsCreated
		response.PatternsUpdated = run.Result.PatternsUpdated
		response.MerchantsAnalyzed = run.Result.MerchantsAnalyzed
		response.MerchantFailures = run.Result.MerchantFailures
		response.TransactionsScanned = run.Result.TransactionsScanned
	}
	return response
}
