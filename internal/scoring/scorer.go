package scoring

import "math"

// Clamp limits v to [0,1]. NaN becomes 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamped returns a copy of f with every factor limited to [0,1]
func (f TrustFactors) Clamped() TrustFactors {
	return TrustFactors{
		ImageQuality:         Clamp(f.ImageQuality),
		DataCompleteness:     Clamp(f.DataCompleteness),
		FormatConsistency:    Clamp(f.FormatConsistency),
		AmountReasonableness: Clamp(f.AmountReasonableness),
		TimestampValidity:    Clamp(f.TimestampValidity),
	}
}

// TrustScore is the weighted sum of the clamped factors, clamped to [0,1]
func TrustScore(f TrustFactors) float64 {
	c := f.Clamped()
	score := c.ImageQuality*WeightImageQuality +
		c.DataCompleteness*WeightDataCompleteness +
		c.FormatConsistency*WeightFormatConsistency +
		c.AmountReasonableness*WeightAmountReasonableness +
		c.TimestampValidity*WeightTimestampValidity
	return Clamp(score)
}

// Resolve fills missing factors with DefaultFactor and clamps the result
func (p PartialFactors) Resolve() TrustFactors {
	return TrustFactors{
		ImageQuality:         orDefault(p.ImageQuality),
		DataCompleteness:     orDefault(p.DataCompleteness),
		FormatConsistency:    orDefault(p.FormatConsistency),
		AmountReasonableness: orDefault(p.AmountReasonableness),
		TimestampValidity:    orDefault(p.TimestampValidity),
	}.Clamped()
}

// FactorsFromMap reads factors keyed by name, defaulting absent ones
func FactorsFromMap(m map[string]float64) TrustFactors {
	get := func(key string) *float64 {
		if v, ok := m[key]; ok {
			return &v
		}
		return nil
	}
	return PartialFactors{
		ImageQuality:         get(FactorImageQuality),
		DataCompleteness:     get(FactorDataCompleteness),
		FormatConsistency:    get(FactorFormatConsistency),
		AmountReasonableness: get(FactorAmountReasonableness),
		TimestampValidity:    get(FactorTimestampValidity),
	}.Resolve()
}

// Map returns the factors keyed by name
func (f TrustFactors) Map() map[string]float64 {
	return map[string]float64{
		FactorImageQuality:         f.ImageQuality,
		FactorDataCompleteness:     f.DataCompleteness,
		FactorFormatConsistency:    f.FormatConsistency,
		FactorAmountReasonableness: f.AmountReasonableness,
		FactorTimestampValidity:    f.TimestampValidity,
	}
}

// DeriveStatus maps a score and flag set to a receipt status
func DeriveStatus(score float64, flags []FraudFlag) ReceiptStatus {
	if score > VerifiedThreshold {
		return StatusVerified
	}
	if len(flags) > 0 {
		return StatusFlagged
	}
	return StatusPending
}

func orDefault(v *float64) float64 {
	if v == nil {
		return DefaultFactor
	}
	return *v
}
