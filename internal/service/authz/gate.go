// Package authz resolves whether an already-identified actor currently
// holds the admin role. It is the single authorization gate: every
// privileged operation calls it before touching inspection data.
//
// Authorization here is deliberately distinct from authentication: the
// actor identifier arrives pre-verified from the upstream identity
// provider and is taken as given. The gate only answers "does this actor
// have the admin role", never "who is this actor".
package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

// userRepo defines the user lookup needed by the gate.
type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate answers admin-role questions from stored user rows.
type Gate struct {
	log   *slog.Logger
	users userRepo
}

// NewGate creates a new authorization gate.
func NewGate(logger *slog.Logger, users userRepo) *Gate {
	return &Gate{
		log:   logger.With("service", "authz"),
		users: users,
	}
}

// IsAdmin reports whether the actor currently holds the admin role.
// An unknown actor or a non-admin role is a normal false, never an error;
// only a failed lookup (store unreachable) returns one.
func (g *Gate) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}

	u, err := g.users.GetByID(ctx, actorID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("authz.IsAdmin: %w", err)
	}

	return u.IsAdmin(), nil
}

// RequireAdmin is the guard clause used by every gated operation. It
// returns domain.ErrForbidden for non-admins and propagates lookup
// failures unchanged so infrastructure errors stay distinguishable.
func (g *Gate) RequireAdmin(ctx context.Context, actorID string) error {
	ok, err := g.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		g.log.WarnContext(ctx, "admin access denied", slog.String("actor_id", actorID))
		return domain.ErrForbidden
	}
	return nil
}
