package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetcheck/inspection-backend/internal/domain"
	"github.com/fleetcheck/inspection-backend/internal/service/image"
)

type imageServiceMock struct {
	UploadFunc func(ctx context.Context, actorID string, in image.UploadInput) (*domain.InspectionImage, error)
	ListFunc   func(ctx context.Context, actorID string, inspectionID int64) ([]domain.InspectionImage, error)
	DeleteFunc func(ctx context.Context, actorID string, imageID int64) error
}

func (m *imageServiceMock) Upload(ctx context.Context, actorID string, in image.UploadInput) (*domain.InspectionImage, error) {
	return m.UploadFunc(ctx, actorID, in)
}

func (m *imageServiceMock) List(ctx context.Context, actorID string, inspectionID int64) ([]domain.InspectionImage, error) {
	return m.ListFunc(ctx, actorID, inspectionID)
}

func (m *imageServiceMock) Delete(ctx context.Context, actorID string, imageID int64) error {
	return m.DeleteFunc(ctx, actorID, imageID)
}

func multipartUpload(t *testing.T, fileName, mimeType string, data []byte, imageType string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if imageType != "" {
		require.NoError(t, mw.WriteField("image_type", imageType))
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestImageUpload(t *testing.T) {
	svc := &imageServiceMock{
		UploadFunc: func(_ context.Context, actorID string, in image.UploadInput) (*domain.InspectionImage, error) {
			assert.Equal(t, "admin-1", actorID)
			assert.Equal(t, int64(14), in.InspectionID)
			assert.Equal(t, "photo.jpg", in.FileName)
			assert.Equal(t, "image/jpeg", in.MimeType)
			assert.Equal(t, "pre_trip", in.ImageType)
			assert.Equal(t, []byte("jpeg bytes"), in.Data)
			return &domain.InspectionImage{ID: 5, InspectionID: in.InspectionID, DriveURL: "https://blobs/5"}, nil
		},
	}
	h := Handlers{
		Inspection: NewInspectionHandler(&inspectionServiceMock{}, testLogger()),
		Image:      NewImageHandler(svc, testLogger()),
	}

	body, contentType := multipartUpload(t, "photo.jpg", "image/jpeg", []byte("jpeg bytes"), "pre_trip")
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/inspections/14/images", body))
	req.Header.Set("Content-Type", contentType)
	rec := serve(h, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Image uploaded successfully", resp["message"])
	img := resp["image"].(map[string]any)
	assert.Equal(t, "https://blobs/5", img["url"])
}

func TestImageUpload_MissingFilePart(t *testing.T) {
	h := Handlers{
		Inspection: NewInspectionHandler(&inspectionServiceMock{}, testLogger()),
		Image:      NewImageHandler(&imageServiceMock{}, testLogger()),
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("image_type", "pre_trip"))
	require.NoError(t, mw.Close())

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/inspections/14/images", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageList(t *testing.T) {
	svc := &imageServiceMock{
		ListFunc: func(_ context.Context, _ string, inspectionID int64) ([]domain.InspectionImage, error) {
			assert.Equal(t, int64(14), inspectionID)
			return []domain.InspectionImage{{ID: 1, InspectionID: inspectionID}}, nil
		},
	}
	h := Handlers{
		Inspection: NewInspectionHandler(&inspectionServiceMock{}, testLogger()),
		Image:      NewImageHandler(svc, testLogger()),
	}

	rec := serve(h, asAdmin(httptest.NewRequest(http.MethodGet, "/api/admin/inspections/14/images", nil)))

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
}

func TestImageDelete_NotFound(t *testing.T) {
	svc := &imageServiceMock{
		DeleteFunc: func(context.Context, string, int64) error {
			return domain.ErrNotFound
		},
	}
	h := Handlers{
		Inspection: NewInspectionHandler(&inspectionServiceMock{}, testLogger()),
		Image:      NewImageHandler(svc, testLogger()),
	}

	rec := serve(h, asAdmin(httptest.NewRequest(http.MethodDelete, "/api/admin/images/5", nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
