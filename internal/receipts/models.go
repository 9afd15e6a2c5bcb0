package receipts

import (
	"time"

	"github.com/richxcame/restaurant-backoffice/internal/scoring"
)

// Receipt is an uploaded receipt image and the result of analysing it
type Receipt struct {
	ID              int64                 `json:"id"`
	Filename        string                `json:"filename"`
	OriginalName    string                `json:"original_name"`
	StorageKey      string                `json:"storage_key,omitempty"`
	ImageURL        string                `json:"image_url,omitempty"`
	MerchantName    *string               `json:"merchant_name"`
	Amount          *float64              `json:"amount"`
	TransactionDate *time.Time            `json:"transaction_date"`
	Items           []string              `json:"items"`
	TrustScore      float64               `json:"trust_score"`
	FraudFlags      []string              `json:"fraud_flags"`
	Confidence      float64               `json:"confidence"`
	TrustFactors    *scoring.TrustFactors `json:"trust_factors,omitempty"`
	Status          scoring.ReceiptStatus `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
}

// Clone returns a deep copy of r
func (r Receipt) Clone() Receipt {
	out := r
	if r.MerchantName != nil {
		v := *r.MerchantName
		out.MerchantName = &v
	}
	if r.Amount != nil {
		v := *r.Amount
		out.Amount = &v
	}
	if r.TransactionDate != nil {
		v := *r.TransactionDate
		out.TransactionDate = &v
	}
	if r.TrustFactors != nil {
		v := *r.TrustFactors
		out.TrustFactors = &v
	}
	out.Items = append([]string(nil), r.Items...)
	out.FraudFlags = append([]string(nil), r.FraudFlags...)
	return out
}

// NewReceipt holds the fields of a receipt before it is assigned an id
type NewReceipt struct {
	Filename        string
	OriginalName    string
	StorageKey      string
	MerchantName    *string
	Amount          *float64
	TransactionDate *time.Time
	Items           []string
	TrustScore      float64
	FraudFlags      []string
	Confidence      float64
	TrustFactors    *scoring.TrustFactors
	Status          scoring.ReceiptStatus

	// CreatedAt backdates the record when set, as demo seeding does
	CreatedAt time.Time
}

// Patch lists the fields a staff member may change after analysis.
// Nil fields are left untouched.
type Patch struct {
	Status       *scoring.ReceiptStatus
	MerchantName *string
	Amount       *float64
}

// UpdateReceiptRequest is the body of PATCH /receipts/:id
type UpdateReceiptRequest struct {
	Status       *string  `json:"status" validate:"omitempty,receipt_status"`
	MerchantName *string  `json:"merchant_name" validate:"omitempty,max=200"`
	Amount       *float64 `json:"amount" validate:"omitempty,gte=0"`
}

// Empty reports whether the request changes nothing
func (r *UpdateReceiptRequest) Empty() bool {
	return r.Status == nil && r.MerchantName == nil && r.Amount == nil
}

// Upload is a receipt image received from a client
type Upload struct {
	OriginalName string
	ContentType  string
	Data         []byte
}

// ExternalAnalysis is what a vision model reports about a receipt.
// Every field is optional; the model's own trust score is never trusted.
type ExternalAnalysis struct {
	MerchantName *string                 `json:"merchantName"`
	Amount       *float64                `json:"amount"`
	Date         *string                 `json:"date"`
	Items        []string                `json:"items"`
	TrustFactors *scoring.PartialFactors `json:"trustFactors"`
	Confidence   *float64                `json:"confidence"`
	TrustScore   *float64                `json:"trustScore,omitempty"`
}

// Analysis is the normalized outcome of analysing a receipt image
type Analysis struct {
	MerchantName    *string
	Amount          *float64
	TransactionDate *time.Time
	Items           []string
	TrustFactors    scoring.TrustFactors
	TrustScore      float64
	FraudFlags      []scoring.FraudFlag
	Confidence      float64
	Fallback        bool
}

// Status derives the review state from the score and flags
func (a *Analysis) Status() scoring.ReceiptStatus {
	return scoring.DeriveStatus(a.TrustScore, a.FraudFlags)
}
