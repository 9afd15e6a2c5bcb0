package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		sentiment Sentiment
		reply     string
	}{
		{"positive keyword", "The pasta was AMAZING", Positive, PositiveReply},
		{"negative keyword", "Terrible service tonight", Negative, NegativeReply},
		{"mixed keyword", "Food was okay, nothing special", Mixed, MixedReply},
		{"no keywords", "We came for lunch", Neutral, NeutralReply},
		{"empty text", "", Neutral, NeutralReply},
		{"positive wins over negative", "Great food but bad parking", Positive, PositiveReply},
		{"negative wins over mixed", "The wait was fine but the soup was awful", Negative, NegativeReply},
		{"substring match", "Absolutely lovely evening", Positive, PositiveReply},
		{"substring inside another word", "The badge on the waiter", Negative, NegativeReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.text)

			assert.Equal(t, tt.sentiment, result.Sentiment)
			assert.Equal(t, tt.reply, result.SuggestedReply)
			assert.Equal(t, FallbackConfidence, result.Confidence)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	text := "Average prices, excellent dessert"
	assert.Equal(t, Classify(text), Classify(text))
}

func TestParse(t *testing.T) {
	assert.Equal(t, Positive, Parse("positive"))
	assert.Equal(t, Mixed, Parse(" Mixed "))
	assert.Equal(t, Neutral, Parse("ecstatic"))
	assert.Equal(t, Neutral, Parse(""))
}
