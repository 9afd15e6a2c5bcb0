package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/richxcame/restaurant-backoffice/pkg/llm"
)

const reviewSystemPrompt = `You are a friendly, emotionally intelligent assistant helping a restaurant respond to reviews.

Analyze the review sentiment and write an empathetic, professional reply that acknowledges the specific points mentioned, thanks the customer, addresses any concerns with understanding and invites them back when appropriate. Keep the tone warm and human.

Respond with JSON in this format:
{
  "sentiment": "positive|negative|mixed|neutral",
  "suggestedReply": "reply text",
  "confidence": number between 0 and 1
}`

const summarySystemPrompt = `You are a friendly business analyst writing weekly review summaries for restaurant owners.

Write a warm, encouraging summary that highlights positive trends and gently notes areas for improvement. Keep the tone upbeat and supportive.

Respond with JSON in this format:
{
  "summary": "short paragraph summarizing the week",
  "positiveHighlights": ["positive trends"],
  "areasForImprovement": ["gentle improvement suggestions"]
}`

// OpenAIAnalyzer implements TextAnalyzer and SummaryGenerator with a chat model
type OpenAIAnalyzer struct {
	client *llm.Client
}

// NewOpenAIAnalyzer creates a new review analyzer
func NewOpenAIAnalyzer(client *llm.Client) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{client: client}
}

// AnalyzeReview asks the model for the sentiment and a suggested reply
func (a *OpenAIAnalyzer) AnalyzeReview(ctx context.Context, text string) (*ExternalInsight, error) {
	var result ExternalInsight
	err := a.client.CompleteJSON(ctx, llm.Request{
		Operation:    "review_insight",
		SystemPrompt: reviewSystemPrompt,
		UserPrompt:   fmt.Sprintf("Please analyze this restaurant review and suggest a reply: %q", text),
		MaxTokens:    500,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateSummary asks the model to summarize a week of reviews
func (a *OpenAIAnalyzer) GenerateSummary(ctx context.Context, reviews []SummaryInput) (*ExternalSummary, error) {
	lines := make([]string, len(reviews))
	for i, r := range reviews {
		lines[i] = fmt.Sprintf("%d stars: %q", r.Rating, r.Content)
	}

	var result ExternalSummary
	err := a.client.CompleteJSON(ctx, llm.Request{
		Operation:    "weekly_summary",
		SystemPrompt: summarySystemPrompt,
		UserPrompt:   "Summarize this week's customer reviews for a restaurant:\n\n" + strings.Join(lines, "\n"),
		MaxTokens:    800,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
