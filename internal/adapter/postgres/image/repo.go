// Package image implements the InspectionImage repository using
// PostgreSQL.
package image

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/fleetcheck/inspection-backend/internal/adapter/postgres"
	"github.com/fleetcheck/inspection-backend/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var imageColumns = []string{
	"id", "inspection_id", "drive_file_id", "drive_url", "file_name",
	"file_size", "mime_type", "image_type", "uploaded_by", "uploaded_at",
}

// Repo provides image bookkeeping persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new image repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a bookkeeping row and returns it with generated fields.
func (r *Repo) Create(ctx context.Context, img *domain.InspectionImage) (*domain.InspectionImage, error) {
	query, args, err := qb.
		Insert("inspection_images").
		Columns(
			"inspection_id", "drive_file_id", "drive_url", "file_name",
			"file_size", "mime_type", "image_type", "uploaded_by",
		).
		Values(
			img.InspectionID, img.DriveFileID, img.DriveURL, img.FileName,
			img.FileSize, img.MimeType, img.ImageType, img.UploadedBy,
		).
		Suffix("RETURNING " + strings.Join(imageColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build image insert: %w", err)
	}

	var row imageRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspection_image", img.InspectionID)
	}

	created := row.toDomain()
	return &created, nil
}

// GetByID returns a single bookkeeping row.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.InspectionImage, error) {
	query, args, err := qb.
		Select(imageColumns...).
		From("inspection_images").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build image query: %w", err)
	}

	var row imageRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspection_image", id)
	}

	img := row.toDomain()
	return &img, nil
}

// ListByInspection returns all images of one inspection, newest first.
func (r *Repo) ListByInspection(ctx context.Context, inspectionID int64) ([]domain.InspectionImage, error) {
	query, args, err := qb.
		Select(imageColumns...).
		From("inspection_images").
		Where(sq.Eq{"inspection_id": inspectionID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build image list query: %w", err)
	}

	var rows []imageRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "inspection_images", inspectionID)
	}

	out := make([]domain.InspectionImage, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Delete removes a bookkeeping row. domain.ErrNotFound if absent.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.
		Delete("inspection_images").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build image delete: %w", err)
	}

	var deleted int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&deleted); err != nil {
		return postgres.MapError(err, "inspection_image", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type imageRow struct {
	ID           int64     `db:"id"`
	InspectionID int64     `db:"inspection_id"`
	DriveFileID  string    `db:"drive_file_id"`
	DriveURL     string    `db:"drive_url"`
	FileName     string    `db:"file_name"`
	FileSize     int64     `db:"file_size"`
	MimeType     *string   `db:"mime_type"`
	ImageType    string    `db:"image_type"`
	UploadedBy   *string   `db:"uploaded_by"`
	UploadedAt   time.Time `db:"uploaded_at"`
}

func (row imageRow) toDomain() domain.InspectionImage {
	img := domain.InspectionImage{
		ID:           row.ID,
		InspectionID: row.InspectionID,
		DriveFileID:  row.DriveFileID,
		DriveURL:     row.DriveURL,
		FileName:     row.FileName,
		FileSize:     row.FileSize,
		ImageType:    row.ImageType,
		UploadedAt:   row.UploadedAt,
	}
	if row.MimeType != nil {
		img.MimeType = *row.MimeType
	}
	if row.UploadedBy != nil {
		img.UploadedBy = *row.UploadedBy
	}
	return img
}
