// Package inspection implements the admin operations over inspection
// records: listing, point reads, partial update, and hard delete. All of
// them are gated on the admin role before any record data is touched.
package inspection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

// adminGate is the authorization guard every operation calls first.
type adminGate interface {
	RequireAdmin(ctx context.Context, actorID string) error
}

// inspectionRepo defines the persistence operations needed by the service.
type inspectionRepo interface {
	List(ctx context.Context) ([]domain.InspectionRecord, error)
	GetByID(ctx context.Context, id int64) (*domain.InspectionRecord, error)
	Update(ctx context.Context, rec *domain.InspectionRecord) (*domain.InspectionRecord, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements the admin inspection operations.
type Service struct {
	log  *slog.Logger
	gate adminGate
	repo inspectionRepo
}

// NewService creates a new inspection service instance.
func NewService(logger *slog.Logger, gate adminGate, repo inspectionRepo) *Service {
	return &Service{
		log:  logger.With("service", "inspection"),
		gate: gate,
		repo: repo,
	}
}

// List returns every inspection, newest first (admin only).
func (s *Service) List(ctx context.Context, actorID string) ([]domain.InspectionRecord, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspection.List: %w", err)
	}
	return records, nil
}

// Get returns a single inspection (admin only). The gate runs before the
// existence check so non-admins cannot probe for record ids.
func (s *Service) Get(ctx context.Context, id int64, actorID string) (*domain.InspectionRecord, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspection.Get: %w", err)
	}
	return rec, nil
}

// Delete hard-deletes an inspection (admin only).
func (s *Service) Delete(ctx context.Context, id int64, actorID string) error {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("inspection.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "inspection deleted",
		slog.Int64("inspection_id", id),
		slog.String("actor_id", actorID),
	)
	return nil
}
