package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultOpenAIBase = "https://api.openai.com/v1"

// OpenAI talks to a chat/completions endpoint over plain HTTP, so any
// OpenAI-compatible server works with BaseURL.
type OpenAI struct {
	baseURL     string
	apiKey      string
	model       string
	temperature *float32
	httpClient  *http.Client
	log         *slog.Logger
}

func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBase
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAI{
		baseURL:     strings.TrimRight(base, "/"),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
		log:         slog.Default(),
	}, nil
}

// WithLogger replaces the default logger.
func (c *OpenAI) WithLogger(l *slog.Logger) *OpenAI {
	if l != nil {
		c.log = l
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    *float32          `json:"temperature,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()
	c.log.Debug("llm.generate.start",
		"req_id", rid,
		"model", c.model,
		"system_len", len(req.System),
		"user_len", len(req.User),
		"json", req.JSON,
	)

	body := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	if req.JSON {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	raw, err := c.post(ctx, c.baseURL+"/chat/completions", body)
	if err != nil {
		c.log.Error("llm.generate.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.generate.no_choices", "req_id", rid, "raw_bytes", len(raw))
		return "", ErrNoChoices
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		return "", ErrNoChoices
	}

	c.log.Info("llm.generate.ok",
		"req_id", rid,
		"model", c.model,
		"out_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func (c *OpenAI) post(ctx context.Context, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
