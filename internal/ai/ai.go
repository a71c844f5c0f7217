package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNoChoices = errors.New("model returned no content")

// Request is a single system+user exchange with the model.
type Request struct {
	System string
	User   string
	// JSON asks the provider for a JSON-only response when it supports it.
	JSON bool
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature *float32
	TimeoutSecs int
}

// New picks a Generator by provider name.
func New(ctx context.Context, cfg Config) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAI(cfg)
	case "gemini":
		return newGemini(ctx, cfg)
	case "noop", "off":
		return Noop{}, nil
	}
	return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
}

// Noop answers without calling a model: the user text comes back as the
// summary body, which is enough for dry runs of the pipeline and exports.
type Noop struct{}

func (Noop) Generate(ctx context.Context, req Request) (string, error) {
	if req.JSON {
		return `{"questions":[]}`, nil
	}
	text := strings.Join(strings.Fields(req.User), " ")
	if r := []rune(text); len(r) > 280 {
		text = string(r[:280]) + "…"
	}
	return "Sažetak: " + text, nil
}
