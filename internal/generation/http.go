package generation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPAdapter speaks the OpenAI-compatible chat completions protocol used
// by Groq and most self-hosted inference servers.
type HTTPAdapter struct {
	url         string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

func NewHTTPAdapter(cfg Config) *HTTPAdapter {
	return &HTTPAdapter{
		url:         strings.TrimSpace(cfg.URL),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type completionChoice struct {
	Message chatMessage `json:"message"`
	Delta   chatMessage `json:"delta"`
}

type completionResponse struct {
	Choices []completionChoice `json:"choices"`
}

func (a *HTTPAdapter) Complete(ctx context.Context, req Request, onDelta DeltaHandler) (Response, error) {
	body := completionRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemInstructions},
			{Role: "user", Content: req.UserMessage},
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		Stream:      onDelta != nil,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	res, err := a.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Response{}, fmt.Errorf("generation backend status %d: %s", res.StatusCode, string(errBody))
	}

	ct := strings.ToLower(res.Header.Get("Content-Type"))
	if strings.Contains(ct, "text/event-stream") || strings.Contains(ct, "application/x-ndjson") {
		return a.consumeStreaming(res.Body, onDelta)
	}

	var result completionResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return Response{}, nil
	}
	text := result.Choices[0].Message.Content
	if text != "" && onDelta != nil {
		if err := onDelta(text); err != nil {
			return Response{}, err
		}
	}
	return Response{Text: text}, nil
}

func (a *HTTPAdapter) consumeStreaming(body io.Reader, onDelta DeltaHandler) (Response, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "data:") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
		if line == "[DONE]" {
			break
		}

		var chunk completionResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			delta = chunk.Choices[0].Message.Content
		}
		if delta == "" {
			continue
		}
		out.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return Response{}, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Response{}, fmt.Errorf("stream read: %w", err)
	}

	return Response{Text: out.String()}, nil
}
