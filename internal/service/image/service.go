// Package image manages inspection photos: the bytes live in an external
// blob service, this service keeps bookkeeping rows pointing at them.
package image

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetcheck/inspection-backend/internal/adapter/drive"
	"github.com/fleetcheck/inspection-backend/internal/domain"
)

const maxUploadSize = 10 << 20 // 10 MiB, matches the blob service limit

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type adminGate interface {
	RequireAdmin(ctx context.Context, actorID string) error
}

type imageRepo interface {
	Create(ctx context.Context, img *domain.InspectionImage) (*domain.InspectionImage, error)
	GetByID(ctx context.Context, id int64) (*domain.InspectionImage, error)
	ListByInspection(ctx context.Context, inspectionID int64) ([]domain.InspectionImage, error)
	Delete(ctx context.Context, id int64) error
}

type inspectionRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.InspectionRecord, error)
}

// BlobStore is the external storage the bytes go to.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, name, mimeType string) (*drive.File, error)
	Delete(ctx context.Context, fileID string) error
}

// Service implements inspection photo management.
type Service struct {
	log         *slog.Logger
	gate        adminGate
	images      imageRepo
	inspections inspectionRepo
	blobs       BlobStore
}

// NewService creates a new image service instance.
func NewService(logger *slog.Logger, gate adminGate, images imageRepo, inspections inspectionRepo, blobs BlobStore) *Service {
	return &Service{
		log:         logger.With("service", "image"),
		gate:        gate,
		images:      images,
		inspections: inspections,
		blobs:       blobs,
	}
}

// UploadInput carries one file to attach to an inspection.
type UploadInput struct {
	InspectionID int64
	FileName     string
	MimeType     string
	ImageType    string
	Data         []byte
}

func (in *UploadInput) validate() error {
	if len(in.Data) == 0 {
		return domain.NewValidationError("file", "file is required")
	}
	if len(in.Data) > maxUploadSize {
		return domain.NewValidationError("file", "file exceeds the 10 MiB limit")
	}
	if !allowedMimeTypes[in.MimeType] {
		return domain.NewValidationError("file", "unsupported file type: only jpeg, png, gif and webp are accepted")
	}
	if in.ImageType == "" {
		in.ImageType = "general"
	}
	return nil
}

// Upload stores the bytes in the blob service and records a bookkeeping
// row, after confirming the target inspection exists.
func (s *Service) Upload(ctx context.Context, actorID string, in UploadInput) (*domain.InspectionImage, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.inspections.GetByID(ctx, in.InspectionID); err != nil {
		return nil, fmt.Errorf("image.Upload: %w", err)
	}

	name := storageName(in.InspectionID, in.ImageType, in.FileName)

	file, err := s.blobs.Upload(ctx, in.Data, name, in.MimeType)
	if err != nil {
		return nil, fmt.Errorf("image.Upload: %w", err)
	}

	created, err := s.images.Create(ctx, &domain.InspectionImage{
		InspectionID: in.InspectionID,
		DriveFileID:  file.FileID,
		DriveURL:     file.DirectLink,
		FileName:     in.FileName,
		FileSize:     file.FileSize,
		MimeType:     in.MimeType,
		ImageType:    in.ImageType,
		UploadedBy:   actorID,
	})
	if err != nil {
		// The blob is already stored; roll it back so it does not leak.
		if delErr := s.blobs.Delete(ctx, file.FileID); delErr != nil {
			s.log.ErrorContext(ctx, "failed to roll back orphaned blob",
				slog.String("file_id", file.FileID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("image.Upload: %w", err)
	}

	s.log.InfoContext(ctx, "image uploaded",
		slog.Int64("inspection_id", in.InspectionID),
		slog.Int64("image_id", created.ID),
		slog.String("actor_id", actorID),
	)

	return created, nil
}

// List returns the bookkeeping rows of one inspection, newest first.
func (s *Service) List(ctx context.Context, actorID string, inspectionID int64) ([]domain.InspectionImage, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.inspections.GetByID(ctx, inspectionID); err != nil {
		return nil, fmt.Errorf("image.List: %w", err)
	}

	images, err := s.images.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("image.List: %w", err)
	}
	return images, nil
}

// Delete removes the blob and then the bookkeeping row.
func (s *Service) Delete(ctx context.Context, actorID string, imageID int64) error {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return err
	}

	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("image.Delete: %w", err)
	}

	if err := s.blobs.Delete(ctx, img.DriveFileID); err != nil {
		return fmt.Errorf("image.Delete: %w", err)
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("image.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "image deleted",
		slog.Int64("image_id", imageID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// storageName derives a collision-free blob name. The original file name
// only contributes its extension; everything else comes from the context
// of the upload.
func storageName(inspectionID int64, imageType, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("inspection_%d_%s_%d_%s%s",
		inspectionID, imageType, time.Now().Unix(), uuid.NewString()[:8], ext)
}
