package scoring

import "math"

const (
	imageQualityThreshold      = 0.6
	dataCompletenessThreshold  = 0.7
	formatConsistencyThreshold = 0.8
	timestampValidityThreshold = 0.8
	maxReasonableAmount        = 1000
	minReasonableAmount        = 0.01
	roundAmountThreshold       = 100
)

// FraudFlags evaluates every heuristic against the clamped factors and optional amount.
// Flags come back in rule order and each appears at most once.
func FraudFlags(f TrustFactors, amount *float64) []FraudFlag {
	c := f.Clamped()
	flags := make([]FraudFlag, 0, 6)

	if c.ImageQuality < imageQualityThreshold {
		flags = append(flags, FlagPoorImageQuality)
	}
	if c.DataCompleteness < dataCompletenessThreshold {
		flags = append(flags, FlagMissingCriticalInfo)
	}
	if c.FormatConsistency < formatConsistencyThreshold {
		flags = append(flags, FlagInconsistentFormatting)
	}
	if amount != nil && (*amount > maxReasonableAmount || *amount < minReasonableAmount) {
		flags = append(flags, FlagUnusualAmountPattern)
	}
	if c.TimestampValidity < timestampValidityThreshold {
		flags = append(flags, FlagSuspiciousTimestamp)
	}
	// Both amount rules may fire for the same receipt, e.g. 2000.00.
	if amount != nil && *amount == math.Trunc(*amount) && *amount > roundAmountThreshold {
		flags = append(flags, FlagRoundAmountSuspicious)
	}

	return flags
}

// FlagStrings converts flags to plain strings for storage and events
func FlagStrings(flags []FraudFlag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}

// ParseFlags converts stored strings back to flags
func ParseFlags(values []string) []FraudFlag {
	out := make([]FraudFlag, len(values))
	for i, v := range values {
		out[i] = FraudFlag(v)
	}
	return out
}
