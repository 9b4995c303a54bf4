package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kerem/campusact/internal/app/models/dto"
	"github.com/kerem/campusact/internal/pkg/apperrors"
)

// UploadSigner issues time-limited upload URLs for new storage keys.
type UploadSigner interface {
	UploadURL(storageKey string) (string, time.Time)
}

// UploadService defines the interface for pre-signed upload slots.
type UploadService interface {
	CreateUploadSlot(ctx context.Context, offeringID int64, req *dto.PresignUploadRequest) (*dto.UploadSlotResponse, error)
}

// uploadServiceImpl implements UploadService.
type uploadServiceImpl struct {
	offeringRepo   OfferingStore
	signer         UploadSigner
	maxUploadBytes int64
}

// NewUploadService creates a new UploadService.
func NewUploadService(offeringRepo OfferingStore, signer UploadSigner, maxUploadBytes int64) UploadService {
	return &uploadServiceImpl{
		offeringRepo:   offeringRepo,
		signer:         signer,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateUploadSlot validates the announced file and issues a pre-signed PUT
// destination. No database row is created here; the storage key only becomes
// part of a session when the owning session create/update commits it.
func (s *uploadServiceImpl) CreateUploadSlot(ctx context.Context, offeringID int64, req *dto.PresignUploadRequest) (*dto.UploadSlotResponse, error) {
	status, err := s.offeringRepo.GetStatus(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("error getting offering status: %w", err)
	}
	if status == "" {
		return nil, apperrors.ErrOfferingNotFound
	}

	if !strings.HasPrefix(req.ContentType, "video/") {
		return nil, apperrors.NewValidationErrorf("unsupported content type %q, only video uploads are accepted", req.ContentType)
	}
	if req.ContentLength <= 0 {
		return nil, apperrors.NewValidationError("content length must be positive")
	}
	if req.ContentLength > s.maxUploadBytes {
		return nil, apperrors.NewValidationErrorf("file exceeds the %d byte upload limit", s.maxUploadBytes)
	}

	ext := strings.ToLower(filepath.Ext(req.OriginalFileName))
	if ext == "" {
		ext = ".mp4"
	}
	storageKey := "videos/" + uuid.New().String() + ext

	url, expiresAt := s.signer.UploadURL(storageKey)
	return &dto.UploadSlotResponse{
		StorageKey: storageKey,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}
