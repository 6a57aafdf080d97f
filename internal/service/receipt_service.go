package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labasubagia22/money-app-api/internal/repository/storage"
)

const (
	MaxReceiptSize  = 5 * 1024 * 1024 // 5MB
	MaxReceiptWidth = 1600
	JPEGQuality     = 85

	// ReceiptURLExpiry is how long a presigned receipt link stays valid
	ReceiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrReceiptInvalidFormat        = errors.New("invalid format. Supported: JPEG, PNG")
	ErrReceiptInvalidData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// allowedReceiptExtensions maps extensions to content types. Only formats
// with a registered decoder belong here; everything is re-encoded as JPEG.
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ReceiptService validates, normalizes and stores receipt images
type ReceiptService struct {
	storage storage.ReceiptRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository) *ReceiptService {
	return &ReceiptService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode checks size and format and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrReceiptInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrReceiptInvalidData
	}
	return img, nil
}

// Upload validates a receipt, re-encodes it as JPEG (downscaling very wide
// scans) and stores it. Returns the stored object path.
func (s *ReceiptService) Upload(ctx context.Context, userID uuid.UUID, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	if img.Bounds().Dx() > MaxReceiptWidth {
		img = imaging.Resize(img, MaxReceiptWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode receipt: %w", err)
	}

	objectPath := fmt.Sprintf("%s/receipts/%s.jpg", userID, uuid.New())

	path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt: %w", err)
	}
	return path, nil
}

// Delete removes a stored receipt. A missing path is a no-op.
func (s *ReceiptService) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}
	return s.storage.Delete(ctx, objectPath)
}

// PresignedURL generates a temporary GET link for a stored receipt
func (s *ReceiptService) PresignedURL(ctx context.Context, objectPath string) (string, error) {
	if objectPath == "" {
		return "", nil
	}
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotConfigured
	}
	return s.storage.GeneratePresignedURL(ctx, objectPath, ReceiptURLExpiry)
}
