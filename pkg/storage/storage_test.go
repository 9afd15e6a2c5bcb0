package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptFilename(t *testing.T) {
	ts := time.UnixMilli(1717000000123)
	assert.Equal(t, "receipt_1717000000123.jpg", ReceiptFilename(ts))
}

func TestGenerateReceiptKey(t *testing.T) {
	ts := time.Date(2024, 5, 29, 10, 0, 0, 0, time.UTC)
	key := GenerateReceiptKey("receipt_1.jpg", ts)

	assert.True(t, strings.HasPrefix(key, "receipts/2024/05/29/"), key)
	assert.True(t, strings.HasSuffix(key, "_receipt_1.jpg"), key)
	assert.NotEqual(t, key, GenerateReceiptKey("receipt_1.jpg", ts))
}

func TestValidateMimeType(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		allowed  []string
		expected bool
	}{
		{"wildcard image", "image/png", []string{"image/*"}, true},
		{"case insensitive", "IMAGE/JPEG", []string{"image/*"}, true},
		{"pdf rejected", "application/pdf", []string{"image/*"}, false},
		{"exact match", "image/webp", []string{"image/webp"}, true},
		{"no restrictions", "text/plain", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateMimeType(tt.mimeType, tt.allowed))
		})
	}
}

func TestGetMimeTypeFromExtension(t *testing.T) {
	assert.Equal(t, "image/jpeg", GetMimeTypeFromExtension("photo.JPG"))
	assert.Equal(t, "image/png", GetMimeTypeFromExtension("scan.png"))
	assert.Equal(t, "application/octet-stream", GetMimeTypeFromExtension("notes.txt"))
}

func TestIsImageMimeType(t *testing.T) {
	assert.True(t, IsImageMimeType("image/heic"))
	assert.False(t, IsImageMimeType("application/pdf"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	key := "receipts/2024/05/29/abc_receipt_1.jpg"
	data := []byte("fake-jpeg-bytes")

	result, err := store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), result.Size)
	assert.Equal(t, "http://localhost:8080/uploads/"+key, result.URL)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "")
	require.NoError(t, err)

	p, err := store.path("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, root))
}
