package generation

import (
	"context"
	"strings"
	"testing"
)

func TestMockAdapterCompleteIsDeterministic(t *testing.T) {
	adapter := NewMockAdapter()
	req := Request{UserMessage: "Apa manfaat asuransi mobil?"}

	first, err := adapter.Complete(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Complete error = %v", err)
	}
	second, _ := adapter.Complete(context.Background(), req, nil)
	if first.Text != second.Text {
		t.Fatalf("replies differ:\n%q\n%q", first.Text, second.Text)
	}
	if len(first.Text) < 50 {
		t.Fatalf("reply too short to pass validation: %q", first.Text)
	}
	if !strings.Contains(strings.ToLower(first.Text), "asuransi") {
		t.Fatalf("reply missing domain terms: %q", first.Text)
	}
}

func TestMockAdapterStreamsDeltas(t *testing.T) {
	adapter := NewMockAdapter()

	var streamed strings.Builder
	resp, err := adapter.Complete(context.Background(), Request{UserMessage: "halo"}, func(delta string) error {
		streamed.WriteString(delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Complete error = %v", err)
	}
	if streamed.String() != resp.Text {
		t.Fatalf("streamed text %q != final text %q", streamed.String(), resp.Text)
	}
}

func TestMockAdapterCancelledContext(t *testing.T) {
	adapter := NewMockAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adapter.Complete(ctx, Request{UserMessage: "halo"}, nil); err == nil {
		t.Fatalf("Complete error = nil, want context error")
	}
}

func TestNewAdapterModes(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
		isMock  bool
	}{
		{"auto without url is mock", Config{Mode: "auto"}, false, true},
		{"auto with url is http", Config{Mode: "auto", URL: "http://localhost:9999"}, false, false},
		{"empty mode resolves to auto", Config{}, false, true},
		{"http requires url", Config{Mode: "http"}, true, false},
		{"explicit mock", Config{Mode: "mock", URL: "http://ignored"}, false, true},
		{"unknown mode", Config{Mode: "grpc"}, true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adapter, err := NewAdapter(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("NewAdapter error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAdapter error = %v", err)
			}
			_, ok := adapter.(*MockAdapter)
			if ok != tc.isMock {
				t.Fatalf("adapter = %T, mock = %v, want %v", adapter, ok, tc.isMock)
			}
		})
	}
}
