package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provider names a STORAGE_PROVIDER value
type Provider string

const (
	ProviderS3    Provider = "s3"
	ProviderLocal Provider = "local"
)

// UploadResult describes a stored receipt image
type UploadResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Storage holds receipt images. Keys are slash separated and never reused.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete succeeds for a key that does not exist
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// GetURL is the public address of key, it does not touch the backend
	GetURL(key string) string
	Ping(ctx context.Context) error
}

// ReceiptFilename returns the stored filename for an upload made at t
func ReceiptFilename(t time.Time) string {
	return fmt.Sprintf("receipt_%d.jpg", t.UnixMilli())
}

// GenerateReceiptKey places an upload under receipts/yyyy/mm/dd/ with a short random prefix
func GenerateReceiptKey(filename string, t time.Time) string {
	return path.Join("receipts", t.UTC().Format("2006/01/02"), uuid.NewString()[:8]+"_"+path.Base(filename))
}

// ValidateMimeType matches mimeType against exact types or "type/*" patterns.
// An empty allow list accepts everything.
func ValidateMimeType(mimeType string, allowedTypes []string) bool {
	if len(allowedTypes) == 0 {
		return true
	}
	mimeType = strings.ToLower(mimeType)
	for _, allowed := range allowedTypes {
		allowed = strings.ToLower(allowed)
		if prefix, ok := strings.CutSuffix(allowed, "*"); ok && strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
			continue
		}
		if allowed == mimeType {
			return true
		}
	}
	return false
}

// GetMimeTypeFromExtension returns the MIME type for common image extensions
func GetMimeTypeFromExtension(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}

// IsImageMimeType reports whether mimeType is an image type
func IsImageMimeType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}
