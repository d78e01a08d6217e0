package inspection

import (
	"context"
	"io"
	"log/slog"

	"github.com/fleetcheck/inspection-backend/internal/domain"
)

var (
	_ adminGate      = &adminGateMock{}
	_ inspectionRepo = &inspectionRepoMock{}
)

// adminGateMock admits everyone unless RequireAdminFunc is set.
type adminGateMock struct {
	RequireAdminFunc func(ctx context.Context, actorID string) error
	calls            []string
}

func (m *adminGateMock) RequireAdmin(ctx context.Context, actorID string) error {
	m.calls = append(m.calls, actorID)
	if m.RequireAdminFunc == nil {
		return nil
	}
	return m.RequireAdminFunc(ctx, actorID)
}

type inspectionRepoMock struct {
	ListFunc    func(ctx context.Context) ([]domain.InspectionRecord, error)
	GetByIDFunc func(ctx context.Context, id int64) (*domain.InspectionRecord, error)
	UpdateFunc  func(ctx context.Context, rec *domain.InspectionRecord) (*domain.InspectionRecord, error)
	DeleteFunc  func(ctx context.Context, id int64) error

	updateCalls []domain.InspectionRecord
}

func (m *inspectionRepoMock) List(ctx context.Context) ([]domain.InspectionRecord, error) {
	if m.ListFunc == nil {
		panic("inspectionRepoMock.ListFunc is nil")
	}
	return m.ListFunc(ctx)
}

func (m *inspectionRepoMock) GetByID(ctx context.Context, id int64) (*domain.InspectionRecord, error) {
	if m.GetByIDFunc == nil {
		panic("inspectionRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *inspectionRepoMock) Update(ctx context.Context, rec *domain.InspectionRecord) (*domain.InspectionRecord, error) {
	if m.UpdateFunc == nil {
		panic("inspectionRepoMock.UpdateFunc is nil")
	}
	m.updateCalls = append(m.updateCalls, *rec)
	return m.UpdateFunc(ctx, rec)
}

func (m *inspectionRepoMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc == nil {
		panic("inspectionRepoMock.DeleteFunc is nil")
	}
	return m.DeleteFunc(ctx, id)
}

func newTestService(gate adminGate, repo inspectionRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, gate, repo)
}

// echoUpdate makes the repo return exactly what the service wrote.
func echoUpdate(ctx context.Context, rec *domain.InspectionRecord) (*domain.InspectionRecord, error) {
	out := *rec
	return &out, nil
}
