package receipts

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/richxcame/restaurant-backoffice/internal/scoring"
	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/richxcame/restaurant-backoffice/pkg/eventbus"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/storage"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes is the largest receipt image accepted
const DefaultMaxUploadBytes = 10 * 1024 * 1024

// ServiceConfig holds service configuration
type ServiceConfig struct {
	MaxUploadBytes   int64
	AllowedMimeTypes []string
}

// Service handles receipt business logic
type Service struct {
	repo      RepositoryInterface
	analysis  *AnalysisService
	storage   storage.Storage
	publisher eventbus.Publisher
	config    ServiceConfig
	now       func() time.Time
}

// NewService creates a new receipts service. storage and publisher may be nil.
func NewService(repo RepositoryInterface, analysis *AnalysisService, store storage.Storage, publisher eventbus.Publisher, config ServiceConfig) *Service {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(config.AllowedMimeTypes) == 0 {
		config.AllowedMimeTypes = []string{"image/*"}
	}

	return &Service{
		repo:      repo,
		analysis:  analysis,
		storage:   store,
		publisher: publisher,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ========================================
// RECEIPT UPLOAD
// ========================================

// ProcessUpload analyses an uploaded image, stores it and persists the result
func (s *Service) ProcessUpload(ctx context.Context, upload *Upload) (*Receipt, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, common.NewBadRequestError("no receipt image provided", nil)
	}
	if int64(len(upload.Data)) > s.config.MaxUploadBytes {
		return nil, common.NewBadRequestError(fmt.Sprintf("file size exceeds maximum of %d MB", s.config.MaxUploadBytes/(1024*1024)), nil)
	}
	if !storage.IsImageMimeType(upload.ContentType) || !storage.ValidateMimeType(upload.ContentType, s.config.AllowedMimeTypes) {
		return nil, common.NewBadRequestError("only image files are allowed", nil)
	}

	analysis := s.analysis.Analyze(ctx, upload.Data, upload.ContentType)

	now := s.now()
	filename := storage.ReceiptFilename(now)

	var storageKey string
	if s.storage != nil {
		key := storage.GenerateReceiptKey(filename, now)
		result, err := s.storage.Upload(ctx, key, bytes.NewReader(upload.Data), int64(len(upload.Data)), upload.ContentType)
		if err != nil {
			logger.WithContext(ctx).Error("Failed to upload receipt image", zap.String("key", key), zap.Error(err))
			return nil, common.NewInternalError("failed to store receipt image", err)
		}
		storageKey = result.Key
	}

	factors := analysis.TrustFactors
	receipt, err := s.repo.Create(ctx, &NewReceipt{
		Filename:        filename,
		OriginalName:    upload.OriginalName,
		StorageKey:      storageKey,
		MerchantName:    analysis.MerchantName,
		Amount:          analysis.Amount,
		TransactionDate: analysis.TransactionDate,
		Items:           analysis.Items,
		TrustScore:      analysis.TrustScore,
		FraudFlags:      scoring.FlagStrings(analysis.FraudFlags),
		Confidence:      analysis.Confidence,
		TrustFactors:    &factors,
		Status:          analysis.Status(),
	})
	if err != nil {
		if storageKey != "" {
			_ = s.storage.Delete(ctx, storageKey)
		}
		return nil, common.NewInternalError("failed to save receipt", err)
	}

	logger.WithContext(ctx).Info("Receipt processed",
		zap.Int64("receipt_id", receipt.ID),
		zap.Float64("trust_score", receipt.TrustScore),
		zap.String("status", string(receipt.Status)),
		zap.Bool("fallback", analysis.Fallback),
	)

	s.publish(ctx, eventbus.SubjectReceiptAnalyzed, eventbus.ReceiptAnalyzedData{
		ReceiptID:  receipt.ID,
		TrustScore: receipt.TrustScore,
		Status:     string(receipt.Status),
		FraudFlags: receipt.FraudFlags,
		Fallback:   analysis.Fallback,
	})

	return s.withURL(receipt), nil
}

// ========================================
// RECEIPT QUERIES
// ========================================

// GetReceipt returns a receipt by id
func (s *Service) GetReceipt(ctx context.Context, id int64) (*Receipt, error) {
	receipt, err := s.repo.Get(ctx, id)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("receipt not found", err)
		}
		return nil, common.NewInternalError("failed to get receipt", err)
	}
	return s.withURL(receipt), nil
}

// ListReceipts returns every receipt, newest first
func (s *Service) ListReceipts(ctx context.Context) ([]Receipt, error) {
	receipts, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list receipts", err)
	}
	if receipts == nil {
		receipts = []Receipt{}
	}
	for i := range receipts {
		receipts[i] = *s.withURL(&receipts[i])
	}
	return receipts, nil
}

// UpdateReceipt applies a staff correction or status override
func (s *Service) UpdateReceipt(ctx context.Context, id int64, req *UpdateReceiptRequest) (*Receipt, error) {
	if req == nil || req.Empty() {
		return nil, common.NewBadRequestError("no fields to update", nil)
	}

	var patch Patch
	if req.Status != nil {
		status := scoring.ReceiptStatus(*req.Status)
		if !status.Valid() {
			return nil, common.NewBadRequestError("invalid receipt status", nil)
		}
		patch.Status = &status
	}
	patch.MerchantName = req.MerchantName
	patch.Amount = req.Amount

	receipt, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewNotFoundError("receipt not found", err)
		}
		return nil, common.NewInternalError("failed to update receipt", err)
	}

	s.publish(ctx, eventbus.SubjectReceiptUpdated, eventbus.ReceiptAnalyzedData{
		ReceiptID:  receipt.ID,
		TrustScore: receipt.TrustScore,
		Status:     string(receipt.Status),
		FraudFlags: receipt.FraudFlags,
	})

	return s.withURL(receipt), nil
}

func (s *Service) withURL(r *Receipt) *Receipt {
	if s.storage != nil && r.StorageKey != "" {
		r.ImageURL = s.storage.GetURL(r.StorageKey)
	}
	return r
}

func (s *Service) publish(ctx context.Context, subject string, data interface{}) {
	eventbus.Notify(ctx, s.publisher, subject, "receipts", data)
}

// MaxUploadBytes returns the largest accepted image size
func (s *Service) MaxUploadBytes() int64 {
	return s.config.MaxUploadBytes
}
