// Package stats computes derived statistics over inspection records: the
// dashboard aggregate counters and the ranked defect frequency table.
package stats

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
	Stats(ctx context.Context) (*domain.InspectionStats, error)
	ListDefectColumns(ctx context.Context) ([]domain.DefectColumns, error)
}

// Service implements the admin statistics operations.
type Service struct {
	log  *slog.Logger
	gate adminGate
	repo inspectionRepo
}

// NewService creates a new stats service instance.
func NewService(logger *slog.Logger, gate adminGate, repo inspectionRepo) *Service {
	return &Service{
		log:  logger.With("service", "stats"),
		gate: gate,
		repo: repo,
	}
}

// Overview returns the aggregate dashboard counters (admin only).
func (s *Service) Overview(ctx context.Context, actorID string) (*domain.InspectionStats, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats.Overview: %w", err)
	}
	return stats, nil
}
