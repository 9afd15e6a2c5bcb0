package scoring

// Factor weights used by TrustScore. They sum to 1.0.
const (
	WeightImageQuality         = 0.25
	WeightDataCompleteness     = 0.30
	WeightFormatConsistency    = 0.20
	WeightAmountReasonableness = 0.15
	WeightTimestampValidity    = 0.10
)

// DefaultFactor is used for any factor the analysis did not report
const DefaultFactor = 0.7

// VerifiedThreshold is the trust score a receipt must exceed to be verified
const VerifiedThreshold = 0.8

// Factor names as they appear in maps and persisted trust factor documents
const (
	FactorImageQuality         = "image_quality"
	FactorDataCompleteness     = "data_completeness"
	FactorFormatConsistency    = "format_consistency"
	FactorAmountReasonableness = "amount_reasonableness"
	FactorTimestampValidity    = "timestamp_validity"
)

// TrustFactors are the five per-receipt quality signals, each in [0,1]
type TrustFactors struct {
	ImageQuality         float64 `json:"image_quality"`
	DataCompleteness     float64 `json:"data_completeness"`
	FormatConsistency    float64 `json:"format_consistency"`
	AmountReasonableness float64 `json:"amount_reasonableness"`
	TimestampValidity    float64 `json:"timestamp_validity"`
}

// PartialFactors carries factors where any may be missing
type PartialFactors struct {
	ImageQuality         *float64 `json:"imageQuality,omitempty"`
	DataCompleteness     *float64 `json:"dataCompleteness,omitempty"`
	FormatConsistency    *float64 `json:"formatConsistency,omitempty"`
	AmountReasonableness *float64 `json:"amountReasonableness,omitempty"`
	TimestampValidity    *float64 `json:"timestampValidity,omitempty"`
}

// FraudFlag names a single fraud heuristic that fired
type FraudFlag string

const (
	FlagPoorImageQuality       FraudFlag = "poor_image_quality"
	FlagMissingCriticalInfo    FraudFlag = "missing_critical_info"
	FlagInconsistentFormatting FraudFlag = "inconsistent_formatting"
	FlagUnusualAmountPattern   FraudFlag = "unusual_amount_pattern"
	FlagSuspiciousTimestamp    FraudFlag = "suspicious_timestamp"
	FlagRoundAmountSuspicious  FraudFlag = "round_amount_suspicious"
	FlagAIAnalysisUnavailable  FraudFlag = "ai_analysis_unavailable"
)

// ReceiptStatus is the review state of a receipt
type ReceiptStatus string

const (
	StatusPending  ReceiptStatus = "pending"
	StatusVerified ReceiptStatus = "verified"
	StatusFlagged  ReceiptStatus = "flagged"
)

// Valid reports whether s is a known status
func (s ReceiptStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusFlagged:
		return true
	}
	return false
}
