// Package user implements admin user management: listing accounts and
// changing roles.
package user

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

// userRepo defines the user repository interface needed by this service.
type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListWithCounts(ctx context.Context) ([]domain.UserWithCount, error)
	CountAdmins(ctx context.Context) (int, error)
	UpdateRole(ctx context.Context, id string, role domain.UserRole) (*domain.User, error)
}

// txRunner executes a function inside one database transaction.
type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements admin user management operations.
type Service struct {
	log   *slog.Logger
	gate  adminGate
	users userRepo
	tx    txRunner
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, gate adminGate, users userRepo, tx txRunner) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		gate:  gate,
		users: users,
		tx:    tx,
	}
}

// List returns every user with their inspection count (admin only).
func (s *Service) List(ctx context.Context, actorID string) ([]domain.UserWithCount, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	users, err := s.users.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("user.List: %w", err)
	}
	return users, nil
}

// SetRole changes the role of a user (admin only). Self-demotion is
// rejected outright, and demoting any admin runs inside a transaction so
// the service can never drop its last admin under concurrent role changes.
func (s *Service) SetRole(ctx context.Context, actorID, targetUserID string, role domain.UserRole) (*domain.User, error) {
	if err := s.gate.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if targetUserID == "" {
		return nil, domain.NewValidationError("user_id", "target user id is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "invalid role: must be 'user' or 'admin'")
	}
	if actorID == targetUserID && role != domain.UserRoleAdmin {
		return nil, fmt.Errorf("self-demotion: %w", domain.ErrConflict)
	}

	var updated *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if role != domain.UserRoleAdmin {
			current, err := s.users.GetByID(ctx, targetUserID)
			if err != nil {
				return err
			}
			if current.IsAdmin() {
				n, err := s.users.CountAdmins(ctx)
				if err != nil {
					return err
				}
				if n <= 1 {
					return fmt.Errorf("demoting the last admin: %w", domain.ErrConflict)
				}
			}
		}

		u, err := s.users.UpdateRole(ctx, targetUserID, role)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("user.SetRole: %w", err)
	}

	s.log.InfoContext(ctx, "user role updated",
		slog.String("target_user_id", targetUserID),
		slog.String("new_role", role.String()),
		slog.String("actor_id", actorID),
	)

	return updated, nil
}
