// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/budget-planner/backend/internal/application/adapter"
)

// GeminiService implements the InsightService using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: "gemini-2.5-flash-lite",
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// GenerateSpendingInsight analyzes recurring patterns and returns a summary
// with actionable suggestions.
func (s *GeminiService) GenerateSpendingInsight(ctx context.Context, request *adapter.SpendingInsightRequest) (*adapter.SpendingInsight, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	// Create client
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	// Get the model
	model := client.GenerativeModel(s.modelName)

	// Configure model for JSON output
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	// Build the prompt
	prompt := s.buildPrompt(request)

	// Generate response
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	// Parse response
	insight, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return insight, nil
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(request *adapter.SpendingInsightRequest) string {
	var sb strings.Builder

	sb.WriteString(`You are a personal finance advisor. Your task is to analyze a user's
recurring transaction patterns (subscriptions, bills, regular payments) and
produce a short assessment of their recurring spend.

For the assessment you must:
1. Summarize the overall recurring spend picture in two or three sentences
2. Point out categories that dominate the monthly recurring total
3. Suggest concrete actions: subscriptions worth reviewing, irregular
   payments worth confirming, obvious duplicates

RULES:
- Base every statement only on the data provided below
- Keep suggestions specific, name the merchant or category involved
- Return at most five suggestions
- Do not invent merchants, amounts, or categories not listed

RECURRING PATTERNS:
`)

	for _, p := range request.Patterns {
		sb.WriteString(fmt.Sprintf("- Merchant: %s, Amount: %s, Frequency: %s, Category: %s, Status: %s\n",
			p.MerchantName, p.Amount, p.Frequency, p.Category, p.Status))
	}

	sb.WriteString("\nMONTHLY TOTALS BY CATEGORY:\n")
	if len(request.CategoryTotals) > 0 {
		for _, t := range request.CategoryTotals {
			sb.WriteString(fmt.Sprintf("- Category: %s, Monthly total: %s\n",
				t.Category, t.MonthlyTotal.StringFixed(2)))
		}
	} else {
		sb.WriteString("(No category totals available)\n")
	}

	sb.WriteString(`
Respond with a single JSON object:
{
  "summary": "two or three sentence overview of the recurring spend",
  "suggestions": ["specific actionable suggestion", "..."]
}

RESPONSE FORMAT: Return only the JSON object, no additional text.
`)

	return sb.String()
}

// geminiInsight represents the raw response from Gemini.
type geminiInsight struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// parseResponse parses the Gemini response into a SpendingInsight.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse) (*adapter.SpendingInsight, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	// Get the text content from the response
	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}

	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	// Parse JSON
	var raw geminiInsight
	if err := json.Unmarshal([]byte(textContent), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	if raw.Summary == "" {
		return nil, fmt.Errorf("response is missing the summary")
	}

	return &adapter.SpendingInsight{
		Summary:     raw.Summary,
		Suggestions: raw.Suggestions,
	}, nil
}
