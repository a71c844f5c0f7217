package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	genai "google.golang.org/genai"
)

type Gemini struct {
	client      *genai.Client
	model       string
	temperature *float32
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	return newGemini(ctx, Config{APIKey: apiKey, Model: model})
}

func newGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gpt-") {
		model = "gemini-2.5-flash"
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.TimeoutSecs > 0 {
		timeout := time.Duration(cfg.TimeoutSecs) * time.Second
		cc.HTTPOptions.Timeout = &timeout
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model, temperature: cfg.Temperature}, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini not configured")
	}
	conf := &genai.GenerateContentConfig{Temperature: g.temperature}
	if strings.TrimSpace(req.System) != "" {
		conf.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		conf.ResponseMIMEType = "application/json"
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(req.User, genai.RoleUser),
	}, conf)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	out := strings.TrimSpace(res.Text())
	if out == "" {
		return "", ErrNoChoices
	}
	return out, nil
}

// StripCodeFences removes a leading ```lang line and a trailing ``` fence.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// FindFirstJSON returns the first balanced {...} object in s, or "".
// Braces inside JSON strings are skipped.
func FindFirstJSON(s string) string {
	start := -1
	depth := 0
	inStr := false
	escaped := false
	for i, r := range s {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inStr = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inStr = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
