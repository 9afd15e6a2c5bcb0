// Package seed loads the embedded demo data set into the repositories.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/richxcame/restaurant-backoffice/internal/receipts"
	"github.com/richxcame/restaurant-backoffice/internal/reservations"
	"github.com/richxcame/restaurant-backoffice/internal/reviews"
	"github.com/richxcame/restaurant-backoffice/internal/scoring"
	"github.com/richxcame/restaurant-backoffice/internal/sentiment"
	"github.com/richxcame/restaurant-backoffice/internal/templates"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// Repositories are the stores the demo data is written to
type Repositories struct {
	Receipts     receipts.RepositoryInterface
	Reviews      reviews.RepositoryInterface
	Reservations reservations.RepositoryInterface
	Templates    templates.RepositoryInterface
}

// Dataset is a decoded seed file
type Dataset struct {
	Receipts     []ReceiptSeed     `yaml:"receipts"`
	Reviews      []ReviewSeed      `yaml:"reviews"`
	Reservations []ReservationSeed `yaml:"reservations"`
	Templates    []TemplateSeed    `yaml:"response_templates"`
}

// ReceiptSeed is one demo receipt
type ReceiptSeed struct {
	Filename     string        `yaml:"filename"`
	MerchantName string        `yaml:"merchant_name"`
	Amount       float64       `yaml:"amount"`
	Age          time.Duration `yaml:"age"`
	Items        []string      `yaml:"items"`
	TrustScore   float64       `yaml:"trust_score"`
	FraudFlags   []string      `yaml:"fraud_flags"`
	Confidence   float64       `yaml:"confidence"`
	Status       string        `yaml:"status"`
}

// ReviewSeed is one demo review
type ReviewSeed struct {
	CustomerName string        `yaml:"customer_name"`
	Rating       int           `yaml:"rating"`
	Content      string        `yaml:"content"`
	Sentiment    string        `yaml:"sentiment"`
	AIReply      string        `yaml:"ai_reply"`
	HasReplied   bool          `yaml:"has_replied"`
	Age          time.Duration `yaml:"age"`
}

// ReservationSeed is one demo reservation
type ReservationSeed struct {
	CustomerName    string        `yaml:"customer_name"`
	Email           string        `yaml:"email"`
	Phone           string        `yaml:"phone"`
	PartySize       int           `yaml:"party_size"`
	DayOffset       int           `yaml:"day_offset"`
	Time            string        `yaml:"time"`
	Status          string        `yaml:"status"`
	SpecialRequests string        `yaml:"special_requests"`
	IsVIP           bool          `yaml:"is_vip"`
	NoShowCount     int           `yaml:"no_show_count"`
	Age             time.Duration `yaml:"age"`
}

// TemplateSeed is one demo response template
type TemplateSeed struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Template string `yaml:"template"`
	IsActive bool   `yaml:"is_active"`
}

// Summary counts the records a seed run wrote
type Summary struct {
	Receipts     int
	Reviews      int
	Reservations int
	Templates    int
}

// Demo decodes the embedded demo data set
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

// Parse decodes and checks a seed file
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	for i, r := range ds.Receipts {
		if !scoring.ReceiptStatus(r.Status).Valid() {
			return fmt.Errorf("receipt %d: invalid status %q", i, r.Status)
		}
	}
	for i, r := range ds.Reviews {
		if r.Rating < 1 || r.Rating > 5 {
			return fmt.Errorf("review %d: rating %d out of range", i, r.Rating)
		}
		if r.Sentiment != "" && !sentiment.Sentiment(r.Sentiment).Valid() {
			return fmt.Errorf("review %d: invalid sentiment %q", i, r.Sentiment)
		}
	}
	for i, r := range ds.Reservations {
		if !reservations.Status(r.Status).Valid() {
			return fmt.Errorf("reservation %d: invalid status %q", i, r.Status)
		}
		if _, ok := reservations.ClockMinutes(r.Time); !ok {
			return fmt.Errorf("reservation %d: invalid time %q", i, r.Time)
		}
	}
	for i, t := range ds.Templates {
		if !templates.Category(t.Category).Valid() {
			return fmt.Errorf("template %d: invalid category %q", i, t.Category)
		}
	}
	return nil
}

// Seed writes ds into repos relative to now. A collection that already
// holds records is left alone, so seeding twice does not duplicate data.
func Seed(ctx context.Context, repos Repositories, ds *Dataset, now time.Time) (Summary, error) {
	var summary Summary

	n, err := seedReceipts(ctx, repos.Receipts, ds.Receipts, now)
	if err != nil {
		return summary, err
	}
	summary.Receipts = n

	if n, err = seedReviews(ctx, repos.Reviews, ds.Reviews, now); err != nil {
		return summary, err
	}
	summary.Reviews = n

	if n, err = seedReservations(ctx, repos.Reservations, ds.Reservations, now); err != nil {
		return summary, err
	}
	summary.Reservations = n

	if n, err = seedTemplates(ctx, repos.Templates, ds.Templates, now); err != nil {
		return summary, err
	}
	summary.Templates = n

	logger.WithContext(ctx).Info("Demo data seeded",
		zap.Int("receipts", summary.Receipts),
		zap.Int("reviews", summary.Reviews),
		zap.Int("reservations", summary.Reservations),
		zap.Int("templates", summary.Templates),
	)
	return summary, nil
}

func seedReceipts(ctx context.Context, repo receipts.RepositoryInterface, seeds []ReceiptSeed, now time.Time) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list receipts: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, s := range seeds {
		created := now.Add(-s.Age)
		merchant := s.MerchantName
		amount := s.Amount
		_, err := repo.Create(ctx, &receipts.NewReceipt{
			Filename:        s.Filename,
			OriginalName:    s.Filename,
			MerchantName:    &merchant,
			Amount:          &amount,
			TransactionDate: &created,
			Items:           nonNil(s.Items),
			TrustScore:      s.TrustScore,
			FraudFlags:      nonNil(s.FraudFlags),
			Confidence:      s.Confidence,
			Status:          scoring.ReceiptStatus(s.Status),
			CreatedAt:       created,
		})
		if err != nil {
			return 0, fmt.Errorf("seed receipt %s: %w", s.Filename, err)
		}
	}
	return len(seeds), nil
}

func seedReviews(ctx context.Context, repo reviews.RepositoryInterface, seeds []ReviewSeed, now time.Time) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reviews: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, s := range seeds {
		_, err := repo.Create(ctx, &reviews.NewReview{
			CustomerName: s.CustomerName,
			Rating:       s.Rating,
			Content:      s.Content,
			Sentiment:    sentiment.Sentiment(s.Sentiment),
			AIReply:      optional(s.AIReply),
			HasReplied:   s.HasReplied,
			CreatedAt:    now.Add(-s.Age),
		})
		if err != nil {
			return 0, fmt.Errorf("seed review from %s: %w", s.CustomerName, err)
		}
	}
	return len(seeds), nil
}

func seedReservations(ctx context.Context, repo reservations.RepositoryInterface, seeds []ReservationSeed, now time.Time) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reservations: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, s := range seeds {
		_, err := repo.Create(ctx, &reservations.NewReservation{
			CustomerName:    s.CustomerName,
			Email:           optional(s.Email),
			Phone:           optional(s.Phone),
			PartySize:       s.PartySize,
			Date:            now.AddDate(0, 0, s.DayOffset).Format(reservations.DateLayout),
			Time:            s.Time,
			Status:          reservations.Status(s.Status),
			SpecialRequests: optional(s.SpecialRequests),
			IsVIP:           s.IsVIP,
			NoShowCount:     s.NoShowCount,
			CreatedAt:       now.Add(-s.Age),
		})
		if err != nil {
			return 0, fmt.Errorf("seed reservation for %s: %w", s.CustomerName, err)
		}
	}
	return len(seeds), nil
}

func seedTemplates(ctx context.Context, repo templates.RepositoryInterface, seeds []TemplateSeed, now time.Time) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, s := range seeds {
		_, err := repo.Create(ctx, &templates.NewTemplate{
			Name:      s.Name,
			Category:  templates.Category(s.Category),
			Template:  s.Template,
			IsActive:  s.IsActive,
			CreatedAt: now,
		})
		if err != nil {
			return 0, fmt.Errorf("seed template %s: %w", s.Name, err)
		}
	}
	return len(seeds), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
