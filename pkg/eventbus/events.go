package eventbus

// Subjects published by the back-office services
const (
	SubjectReceiptAnalyzed    = "receipts.analyzed"
	SubjectReceiptUpdated     = "receipts.updated"
	SubjectReviewCreated      = "reviews.created"
	SubjectReviewReplied      = "reviews.replied"
	SubjectReservationCreated = "reservations.created"
	SubjectReservationUpdated = "reservations.updated"
	SubjectReservationNoShow  = "reservations.no_show"
)

// ReceiptAnalyzedData is published after a receipt upload is scored
type ReceiptAnalyzedData struct {
	ReceiptID  int64    `json:"receipt_id"`
	TrustScore float64  `json:"trust_score"`
	Status     string   `json:"status"`
	FraudFlags []string `json:"fraud_flags"`
	Fallback   bool     `json:"fallback"`
}

// ReviewCreatedData is published when a review is stored
type ReviewCreatedData struct {
	ReviewID  int64  `json:"review_id"`
	Rating    int    `json:"rating"`
	Sentiment string `json:"sentiment"`
}

// ReservationData is published on reservation lifecycle changes
type ReservationData struct {
	ReservationID int64  `json:"reservation_id"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	NoShowCount   int    `json:"no_show_count"`
}
