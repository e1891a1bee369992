package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPAdapterComplete(t *testing.T) {
	var got completionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(completionResponse{Choices: []completionChoice{
			{Message: chatMessage{Role: "assistant", Content: "Jawaban lengkap."}},
		}})
	}))
	defer ts.Close()

	adapter := NewHTTPAdapter(Config{
		URL:         ts.URL,
		APIKey:      "test-key",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.1,
		MaxTokens:   1024,
	})

	resp, err := adapter.Complete(context.Background(), Request{
		SystemInstructions: "aturan sistem",
		UserMessage:        "pertanyaan pengguna",
	}, nil)
	if err != nil {
		t.Fatalf("Complete error = %v", err)
	}
	if resp.Text != "Jawaban lengkap." {
		t.Fatalf("text = %q", resp.Text)
	}

	if got.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("model = %q", got.Model)
	}
	if got.Temperature != 0.1 || got.MaxTokens != 1024 {
		t.Fatalf("sampling params = %v / %d", got.Temperature, got.MaxTokens)
	}
	if got.Stream {
		t.Fatalf("stream = true without a delta handler")
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "pertanyaan pengguna" {
		t.Fatalf("messages = %+v", got.Messages)
	}
}

func TestHTTPAdapterStreaming(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !req.Stream {
			t.Errorf("stream = false, want true with a delta handler")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, fragment := range []string{"Halo ", "dari ", "Miria."} {
			chunk := completionResponse{Choices: []completionChoice{
				{Delta: chatMessage{Content: fragment}},
			}}
			raw, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", raw)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer ts.Close()

	adapter := NewHTTPAdapter(Config{URL: ts.URL, Model: "m"})

	var deltas []string
	resp, err := adapter.Complete(context.Background(), Request{UserMessage: "halo"}, func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Complete error = %v", err)
	}
	if resp.Text != "Halo dari Miria." {
		t.Fatalf("text = %q", resp.Text)
	}
	if len(deltas) != 3 {
		t.Fatalf("deltas = %d, want 3: %v", len(deltas), deltas)
	}
}

func TestHTTPAdapterNonStreamingBackendStillDelivers(t *testing.T) {
	// Some backends ignore stream=true and answer with a plain JSON body.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse{Choices: []completionChoice{
			{Message: chatMessage{Content: "Jawaban utuh."}},
		}})
	}))
	defer ts.Close()

	adapter := NewHTTPAdapter(Config{URL: ts.URL, Model: "m"})

	var streamed strings.Builder
	resp, err := adapter.Complete(context.Background(), Request{UserMessage: "halo"}, func(delta string) error {
		streamed.WriteString(delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Complete error = %v", err)
	}
	if resp.Text != "Jawaban utuh." || streamed.String() != "Jawaban utuh." {
		t.Fatalf("text = %q, streamed = %q", resp.Text, streamed.String())
	}
}

func TestHTTPAdapterErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	adapter := NewHTTPAdapter(Config{URL: ts.URL, Model: "m"})
	_, err := adapter.Complete(context.Background(), Request{UserMessage: "halo"}, nil)
	if err == nil {
		t.Fatalf("Complete error = nil, want status error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error = %v, want status code in message", err)
	}
}

func TestHTTPAdapterEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse{})
	}))
	defer ts.Close()

	adapter := NewHTTPAdapter(Config{URL: ts.URL, Model: "m"})
	resp, err := adapter.Complete(context.Background(), Request{UserMessage: "halo"}, nil)
	if err != nil {
		t.Fatalf("Complete error = %v", err)
	}
	if resp.Text != "" {
		t.Fatalf("text = %q, want empty", resp.Text)
	}
}
