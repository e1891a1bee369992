package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request is the normalized prompt sent to the generation backend.
type Request struct {
	SystemInstructions string `json:"system_instructions"`
	UserMessage        string `json:"user_message"`
}

// Response is the final answer text after streaming deltas.
type Response struct {
	Text string `json:"text"`
}

// DeltaHandler receives streaming text fragments.
type DeltaHandler func(delta string) error

// Adapter bridges the advisor pipeline with a text generation backend.
type Adapter interface {
	Complete(ctx context.Context, req Request, onDelta DeltaHandler) (Response, error)
}

// Config controls adapter construction.
type Config struct {
	Mode        string
	URL         string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewAdapter selects a backend by mode. "auto" resolves to http when a URL
// is configured and to the deterministic mock otherwise.
func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" {
			return NewHTTPAdapter(cfg), nil
		}
		return NewMockAdapter(), nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("generation HTTP url is required for http mode")
		}
		return NewHTTPAdapter(cfg), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown generation mode %q", cfg.Mode)
	}
}
