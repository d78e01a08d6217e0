package inspection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

// Update applies a partial update to one inspection and returns the
// post-write record.
//
// Order of checks: authorization first (so non-admins learn nothing about
// record existence), then the empty-payload check, then the record read.
// The merge itself is read-then-single-statement-write; the UPDATE is
// atomic but no transaction spans the read and the write, so two admins
// editing the same record concurrently race last-writer-wins. That is an
// accepted limitation: the merge is deterministic for a fixed payload and
// retries are the caller's concern.
func (s *Service) Update(ctx context.Context, id int64, actorID string, in UpdateInput) (*domain.InspectionRecord, error) {
	start := time.Now().UTC()

	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if in.FieldCount() == 0 {
		return nil, domain.NewValidationError("fields", "no fields to update")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspection.Update: read: %w", err)
	}

	merged := *current
	if err := in.apply(&merged); err != nil {
		return nil, err
	}
	merged.UpdatedAt = start
	merged.UpdatedBy = actorID

	updated, err := s.repo.Update(ctx, &merged)
	if err != nil {
		// NotFound here means the record vanished between read and write.
		return nil, fmt.Errorf("inspection.Update: write: %w", err)
	}

	s.log.InfoContext(ctx, "inspection updated",
		slog.Int64("inspection_id", id),
		slog.String("actor_id", actorID),
		slog.Int("fields", in.FieldCount()),
	)

	return updated, nil
}
