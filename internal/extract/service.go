package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const DefaultServiceURL = "http://127.0.0.1:8000/extractContent"

// Service forwards each file to the external extraction endpoint as a
// multipart form with a single "file" part and reads back {"content": "..."}.
type Service struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

func NewService(url string, timeout time.Duration, log *slog.Logger) *Service {
	if url == "" {
		url = DefaultServiceURL
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{url: url, httpClient: &http.Client{Timeout: timeout}, log: log}
}

type serviceResponse struct {
	Content *string `json:"content"`
}

func (s *Service) Extract(ctx context.Context, f File) (string, error) {
	if err := CheckType(f.Name); err != nil {
		return "", err
	}
	start := time.Now()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(f.Name))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read extraction response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to extract content: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out serviceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode extraction response: %w", err)
	}
	if out.Content == nil {
		return "", fmt.Errorf("extraction response has no content field")
	}

	s.log.Info("extract.service.ok",
		"file", f.Name,
		"bytes", len(f.Data),
		"chars", len(*out.Content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nonEmpty(f.Name, *out.Content)
}
