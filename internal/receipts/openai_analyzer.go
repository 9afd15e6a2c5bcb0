package receipts

import (
	"context"

	"github.com/richxcame/restaurant-backoffice/pkg/llm"
)

const receiptSystemPrompt = `You are an expert receipt analysis system. Analyze the receipt image, extract the key information and rate how trustworthy it looks.

Respond with JSON in this exact format:
{
  "merchantName": "string or null",
  "amount": number or null,
  "date": "ISO date string or null",
  "items": ["array of item names"],
  "trustFactors": {
    "imageQuality": number between 0 and 1 (clarity, resolution, lighting),
    "dataCompleteness": number between 0 and 1 (merchant, amount, date and items present),
    "formatConsistency": number between 0 and 1 (standard receipt layout),
    "amountReasonableness": number between 0 and 1 (plausible amount for the merchant),
    "timestampValidity": number between 0 and 1 (date is plausible, not in the future)
  },
  "confidence": number between 0 and 1
}

Scoring guidelines:
- imageQuality: 0.9+ clear and well lit; 0.6-0.8 acceptable; below 0.6 poor
- dataCompleteness: 0.9+ all fields present; 0.7-0.8 most fields; below 0.7 critical info missing
- formatConsistency: 0.9+ standard format; 0.8-0.9 minor variations; below 0.8 unusual
- amountReasonableness: 0.9+ typical; 0.7-0.8 unusual but possible; below 0.7 suspicious
- timestampValidity: 0.9+ recent and logical; 0.8-0.9 acceptable; below 0.8 suspicious`

const receiptUserPrompt = "Analyze this receipt for authenticity and extract the key information."

// OpenAIAnalyzer implements VisionAnalyzer with a multimodal chat model
type OpenAIAnalyzer struct {
	client *llm.Client
}

// NewOpenAIAnalyzer creates a new vision analyzer
func NewOpenAIAnalyzer(client *llm.Client) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{client: client}
}

// AnalyzeReceipt sends the image to the model and decodes its JSON answer
func (a *OpenAIAnalyzer) AnalyzeReceipt(ctx context.Context, image []byte, contentType string) (*ExternalAnalysis, error) {
	var result ExternalAnalysis
	err := a.client.CompleteJSON(ctx, llm.Request{
		Operation:        "receipt_analysis",
		SystemPrompt:     receiptSystemPrompt,
		UserPrompt:       receiptUserPrompt,
		Image:            image,
		ImageContentType: contentType,
		MaxTokens:        1000,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
