// Package user implements the User repository using PostgreSQL.
package user

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

var userColumns = []string{"id", "email", "role", "created_at"}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query, args, err := qb.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u := row.toDomain()
	return &u, nil
}

// ListWithCounts returns every user together with the number of
// inspections they own, newest accounts first.
func (r *Repo) ListWithCounts(ctx context.Context) ([]domain.UserWithCount, error) {
	query, args, err := qb.
		Select(
			"u.id", "u.email", "u.role", "u.created_at",
			"COUNT(vi.id) AS inspection_count",
		).
		From("users u").
		LeftJoin("vehicle_inspections vi ON vi.user_id = u.id").
		GroupBy("u.id", "u.email", "u.role", "u.created_at").
		OrderBy("u.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user list query: %w", err)
	}

	var rows []userCountRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "users", "all")
	}

	out := make([]domain.UserWithCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.UserWithCount{
			User:            row.userRow.toDomain(),
			InspectionCount: int(row.InspectionCount),
		})
	}
	return out, nil
}

// CountAdmins returns how many users currently hold the admin role.
func (r *Repo) CountAdmins(ctx context.Context) (int, error) {
	query, args, err := qb.
		Select("COUNT(*)").
		From("users").
		Where(sq.Eq{"role": domain.UserRoleAdmin.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build admin count query: %w", err)
	}

	var n int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "users", "admins")
	}
	return int(n), nil
}

// UpdateRole sets the user's role and returns the post-update row.
// A user id that matches no row yields domain.ErrNotFound.
func (r *Repo) UpdateRole(ctx context.Context, id string, role domain.UserRole) (*domain.User, error) {
	query, args, err := qb.
		Update("users").
		Set("role", role.String()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build role update: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u := row.toDomain()
	return &u, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type userRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

type userCountRow struct {
	userRow
	InspectionCount int64 `db:"inspection_count"`
}

func (row userRow) toDomain() domain.User {
	return domain.User{
		ID:        row.ID,
		Email:     row.Email,
		Role:      domain.UserRole(row.Role),
		CreatedAt: row.CreatedAt,
	}
}
