package user

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

type adminGateMock struct {
	err   error
	calls []string
}

func (m *adminGateMock) RequireAdmin(_ context.Context, actorID string) error {
	m.calls = append(m.calls, actorID)
	return m.err
}

type userRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id string) (*domain.User, error)
	ListWithCountsFunc func(ctx context.Context) ([]domain.UserWithCount, error)
	CountAdminsFunc    func(ctx context.Context) (int, error)
	UpdateRoleFunc     func(ctx context.Context, id string, role domain.UserRole) (*domain.User, error)

	updateCalls int
}

func (m *userRepoMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		panic("unexpected call to GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) ListWithCounts(ctx context.Context) ([]domain.UserWithCount, error) {
	if m.ListWithCountsFunc == nil {
		panic("unexpected call to ListWithCounts")
	}
	return m.ListWithCountsFunc(ctx)
}

func (m *userRepoMock) CountAdmins(ctx context.Context) (int, error) {
	if m.CountAdminsFunc == nil {
		panic("unexpected call to CountAdmins")
	}
	return m.CountAdminsFunc(ctx)
}

func (m *userRepoMock) UpdateRole(ctx context.Context, id string, role domain.UserRole) (*domain.User, error) {
	m.updateCalls++
	if m.UpdateRoleFunc == nil {
		panic("unexpected call to UpdateRole")
	}
	return m.UpdateRoleFunc(ctx, id, role)
}

// txRunnerMock executes the callback directly; repository mocks stand in
// for the transactional view.
type txRunnerMock struct {
	calls int
}

func (m *txRunnerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newTestService(gate *adminGateMock, repo *userRepoMock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, gate, repo, &txRunnerMock{})
}

func TestService_List(t *testing.T) {
	now := time.Now()
	want := []domain.UserWithCount{
		{User: domain.User{ID: "u-1", Email: "a@example.com", Role: domain.UserRoleAdmin, CreatedAt: now}, InspectionCount: 12},
		{User: domain.User{ID: "u-2", Email: "b@example.com", Role: domain.UserRoleUser, CreatedAt: now}, InspectionCount: 0},
	}

	gate := &adminGateMock{}
	repo := &userRepoMock{
		ListWithCountsFunc: func(context.Context) ([]domain.UserWithCount, error) {
			return want, nil
		},
	}

	got, err := newTestService(gate, repo).List(context.Background(), "admin-1")

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"admin-1"}, gate.calls)
}

func TestService_List_Forbidden(t *testing.T) {
	gate := &adminGateMock{err: domain.ErrForbidden}
	repo := &userRepoMock{} // any repo call panics

	_, err := newTestService(gate, repo).List(context.Background(), "u-2")

	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_SetRole(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{
		UpdateRoleFunc: func(_ context.Context, id string, role domain.UserRole) (*domain.User, error) {
			return &domain.User{ID: id, Email: "b@example.com", Role: role}, nil
		},
	}

	got, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "u-2", domain.UserRoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, "u-2", got.ID)
	assert.Equal(t, domain.UserRoleAdmin, got.Role)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestService_SetRole_SelfDemotionConflict(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{}

	_, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "admin-1", domain.UserRoleUser)

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, repo.updateCalls)
}

func TestService_SetRole_SelfPromoteNoop(t *testing.T) {
	// Re-granting admin to yourself is harmless and allowed.
	gate := &adminGateMock{}
	repo := &userRepoMock{
		UpdateRoleFunc: func(_ context.Context, id string, role domain.UserRole) (*domain.User, error) {
			return &domain.User{ID: id, Role: role}, nil
		},
	}

	got, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "admin-1", domain.UserRoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, got.Role)
}

func TestService_SetRole_InvalidRole(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{}

	_, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "u-2", "superuser")

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.updateCalls)
}

func TestService_SetRole_EmptyTarget(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{}

	_, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "", domain.UserRoleUser)

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_SetRole_TargetNotFound(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{
		GetByIDFunc: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}

	_, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "ghost", domain.UserRoleUser)

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, repo.updateCalls)
}

func TestService_SetRole_LastAdminGuard(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.UserRoleAdmin}, nil
		},
		CountAdminsFunc: func(context.Context) (int, error) { return 1, nil },
	}

	_, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "admin-2", domain.UserRoleUser)

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, repo.updateCalls)
}

func TestService_SetRole_DemoteWithRemainingAdmin(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.UserRoleAdmin}, nil
		},
		CountAdminsFunc: func(context.Context) (int, error) { return 2, nil },
		UpdateRoleFunc: func(_ context.Context, id string, role domain.UserRole) (*domain.User, error) {
			return &domain.User{ID: id, Role: role}, nil
		},
	}

	got, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "admin-2", domain.UserRoleUser)

	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleUser, got.Role)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestService_SetRole_DemoteRegularUserSkipsAdminCount(t *testing.T) {
	gate := &adminGateMock{}
	repo := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Role: domain.UserRoleUser}, nil
		},
		// CountAdminsFunc deliberately nil: calling it would panic
		UpdateRoleFunc: func(_ context.Context, id string, role domain.UserRole) (*domain.User, error) {
			return &domain.User{ID: id, Role: role}, nil
		},
	}

	_, err := newTestService(gate, repo).SetRole(context.Background(), "admin-1", "u-2", domain.UserRoleUser)

	require.NoError(t, err)
}

func TestService_SetRole_Forbidden(t *testing.T) {
	gate := &adminGateMock{err: domain.ErrForbidden}
	repo := &userRepoMock{}

	_, err := newTestService(gate, repo).SetRole(context.Background(), "u-2", "u-3", domain.UserRoleAdmin)

	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, repo.updateCalls)
}
