package image

import (
	"context"
	"io"
	"log/slog"

	"github.com/fleetcheck/inspection-backend/internal/adapter/drive"
	"github.com/fleetcheck/inspection-backend/internal/domain"
)

type adminGateMock struct {
	err error
}

func (m *adminGateMock) RequireAdmin(context.Context, string) error { return m.err }

type imageRepoMock struct {
	CreateFunc           func(ctx context.Context, img *domain.InspectionImage) (*domain.InspectionImage, error)
	GetByIDFunc          func(ctx context.Context, id int64) (*domain.InspectionImage, error)
	ListByInspectionFunc func(ctx context.Context, inspectionID int64) ([]domain.InspectionImage, error)
	DeleteFunc           func(ctx context.Context, id int64) error

	deleteCalls int
}

func (m *imageRepoMock) Create(ctx context.Context, img *domain.InspectionImage) (*domain.InspectionImage, error) {
	if m.CreateFunc == nil {
		panic("unexpected call to Create")
	}
	return m.CreateFunc(ctx, img)
}

func (m *imageRepoMock) GetByID(ctx context.Context, id int64) (*domain.InspectionImage, error) {
	if m.GetByIDFunc == nil {
		panic("unexpected call to GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *imageRepoMock) ListByInspection(ctx context.Context, inspectionID int64) ([]domain.InspectionImage, error) {
	if m.ListByInspectionFunc == nil {
		panic("unexpected call to ListByInspection")
	}
	return m.ListByInspectionFunc(ctx, inspectionID)
}

func (m *imageRepoMock) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.DeleteFunc == nil {
		panic("unexpected call to Delete")
	}
	return m.DeleteFunc(ctx, id)
}

type inspectionRepoMock struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.InspectionRecord, error)
}

func (m *inspectionRepoMock) GetByID(ctx context.Context, id int64) (*domain.InspectionRecord, error) {
	if m.GetByIDFunc == nil {
		panic("unexpected call to GetByID")
	}
	return m.GetByIDFunc(ctx, id)
}

type blobStoreMock struct {
	UploadFunc func(ctx context.Context, data []byte, name, mimeType string) (*drive.File, error)
	DeleteFunc func(ctx context.Context, fileID string) error

	uploadCalls int
	deleteCalls int
}

func (m *blobStoreMock) Upload(ctx context.Context, data []byte, name, mimeType string) (*drive.File, error) {
	m.uploadCalls++
	if m.UploadFunc == nil {
		panic("unexpected call to Upload")
	}
	return m.UploadFunc(ctx, data, name, mimeType)
}

func (m *blobStoreMock) Delete(ctx context.Context, fileID string) error {
	m.deleteCalls++
	if m.DeleteFunc == nil {
		panic("unexpected call to Delete")
	}
	return m.DeleteFunc(ctx, fileID)
}

func newTestService(gate *adminGateMock, images *imageRepoMock, inspections *inspectionRepoMock, blobs *blobStoreMock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, gate, images, inspections, blobs)
}
