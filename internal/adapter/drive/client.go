// Package drive is a thin client for the external blob service that
// stores inspection photos. The service owns the bytes; this backend only
// keeps bookkeeping rows pointing at the returned file handles.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/fleetcheck/inspection-backend/internal/config"
)

// File describes one stored blob as reported by the service.
type File struct {
	FileID     string `json:"fileId"`
	DirectLink string `json:"directLink"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	MimeType   string `json:"mimeType"`
}

// Client talks to the blob service over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from DriveConfig.
func NewClient(cfg config.DriveConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "drive"),
	}
}

// Upload stores the bytes under the given name and returns the handle.
func (c *Client) Upload(ctx context.Context, data []byte, name, mimeType string) (*File, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("drive: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("drive: write form file: %w", err)
	}
	if err := mw.WriteField("mimeType", mimeType); err != nil {
		return nil, fmt.Errorf("drive: write mime field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("drive: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return nil, fmt.Errorf("drive: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive: upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("drive: upload: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drive: read upload response: %w", err)
	}

	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("drive: decode upload response: %w", err)
	}
	if file.FileName == "" {
		file.FileName = name
	}
	if file.FileSize == 0 {
		file.FileSize = int64(len(data))
	}

	c.log.DebugContext(ctx, "blob uploaded",
		slog.String("file_id", file.FileID),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", time.Since(start)),
	)

	return &file, nil
}

// Delete removes a stored blob. A blob the service no longer knows about
// is treated as already deleted.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	reqURL := c.baseURL + "/files/" + url.PathEscape(fileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return fmt.Errorf("drive: create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("drive: delete request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("drive: delete: unexpected status %d", resp.StatusCode)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
