// Package sentiment classifies review text with a fixed keyword table.
// It is the offline path used when the language model is not reachable.
package sentiment

import "strings"

// Sentiment is the overall tone of a review
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Mixed    Sentiment = "mixed"
	Neutral  Sentiment = "neutral"
)

// FallbackConfidence is reported for every keyword classification
const FallbackConfidence = 0.7

// Suggested replies for each keyword category
const (
	PositiveReply = "Thank you so much for your wonderful feedback! We're thrilled that you had such a great experience. We look forward to serving you again soon!"
	NegativeReply = "We sincerely apologize for your disappointing experience. Your feedback is important to us, and we'd like to make this right. Please contact us directly so we can address your concerns."
	MixedReply    = "Thank you for your honest feedback. We're always working to improve, and your input helps us do better. We hope to exceed your expectations on your next visit."
	NeutralReply  = "Thank you for your feedback! We appreciate you taking the time to share your experience with us."
)

// Result is a classified review
type Result struct {
	Sentiment      Sentiment `json:"sentiment"`
	SuggestedReply string    `json:"suggested_reply"`
	Confidence     float64   `json:"confidence"`
}

type rule struct {
	sentiment Sentiment
	keywords  []string
	reply     string
}

// Evaluated in order; the first category with a matching keyword wins.
var rules = []rule{
	{Positive, []string{"great", "excellent", "amazing", "love"}, PositiveReply},
	{Negative, []string{"bad", "terrible", "awful", "hate"}, NegativeReply},
	{Mixed, []string{"okay", "fine", "average"}, MixedReply},
}

// Classify labels text by substring keyword match over its lower-cased form
func Classify(text string) Result {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return Result{Sentiment: r.sentiment, SuggestedReply: r.reply, Confidence: FallbackConfidence}
			}
		}
	}
	return Result{Sentiment: Neutral, SuggestedReply: NeutralReply, Confidence: FallbackConfidence}
}

// Valid reports whether s is a known label
func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Negative, Mixed, Neutral:
		return true
	}
	return false
}

// Parse normalizes a label from an external source. Unknown labels become neutral.
func Parse(label string) Sentiment {
	s := Sentiment(strings.ToLower(strings.TrimSpace(label)))
	if s.Valid() {
		return s
	}
	return Neutral
}
