package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/insurai/miria/internal/advisor"
	"github.com/insurai/miria/internal/protocol"
)

// miriaperf replays canned advisor questions against a running service and
// reports per-turn latency percentiles for the REST or websocket path.

type options struct {
	baseURL     string
	turns       int
	useWS       bool
	turnTimeout time.Duration
	texts       []string
	verbose     bool
}

var defaultQuestions = []string{
	"Apa saja manfaat asuransi comprehensive untuk mobil?",
	"Bagaimana cara klaim kalau mobil kena banjir?",
	"Berapa premi asuransi motor untuk pemakaian harian?",
	"Apa perbedaan TLO dan comprehensive?",
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "miriaperf: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "miriaperf: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var cfg options
	var turnTimeoutMS int
	var textsRaw string

	flag.StringVar(&cfg.baseURL, "base-url", "http://127.0.0.1:8080", "Miria base URL")
	flag.IntVar(&cfg.turns, "turns", 10, "number of chat turns to replay")
	flag.BoolVar(&cfg.useWS, "ws", false, "drive the websocket streaming path instead of REST")
	flag.IntVar(&turnTimeoutMS, "turn-timeout-ms", 30000, "timeout per turn in milliseconds")
	flag.StringVar(&textsRaw, "texts", "", "questions separated by '|' (optional)")
	flag.BoolVar(&cfg.verbose, "verbose", true, "print replay progress")
	flag.Parse()

	cfg.baseURL = strings.TrimRight(strings.TrimSpace(cfg.baseURL), "/")
	if cfg.baseURL == "" {
		return options{}, fmt.Errorf("base-url is required")
	}
	if cfg.turns <= 0 {
		return options{}, fmt.Errorf("turns must be > 0")
	}
	if turnTimeoutMS < 1000 {
		turnTimeoutMS = 1000
	}
	cfg.turnTimeout = time.Duration(turnTimeoutMS) * time.Millisecond

	if strings.TrimSpace(textsRaw) == "" {
		cfg.texts = append([]string(nil), defaultQuestions...)
	} else {
		for _, part := range strings.Split(textsRaw, "|") {
			if t := strings.TrimSpace(part); t != "" {
				cfg.texts = append(cfg.texts, t)
			}
		}
		if len(cfg.texts) == 0 {
			return options{}, fmt.Errorf("texts produced no non-empty questions")
		}
	}
	return cfg, nil
}

func run(cfg options) error {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Minute)
	defer cancel()

	var latencies []time.Duration
	var err error
	if cfg.useWS {
		latencies, err = replayWS(ctx, cfg)
	} else {
		latencies, err = replayREST(ctx, cfg)
	}
	if err != nil {
		return err
	}

	printSummary(latencies)
	return nil
}

func replayREST(ctx context.Context, cfg options) ([]time.Duration, error) {
	client := &http.Client{Timeout: cfg.turnTimeout}
	latencies := make([]time.Duration, 0, cfg.turns)

	for i := 0; i < cfg.turns; i++ {
		question := cfg.texts[i%len(cfg.texts)]
		payload, _ := json.Marshal(advisor.ChatRequest{Message: question})

		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.baseURL+"/v1/chat", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		res, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", i+1, err)
		}
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("turn %d: status %d: %s", i+1, res.StatusCode, string(body))
		}
		elapsed := time.Since(start)
		latencies = append(latencies, elapsed)

		if cfg.verbose {
			var resp advisor.ChatResponse
			_ = json.Unmarshal(body, &resp)
			fmt.Printf("turn %d: %s  citations=%d answer_len=%d\n",
				i+1, elapsed.Round(time.Millisecond), len(resp.Citations), len(resp.Answer))
		}
	}
	return latencies, nil
}

func replayWS(ctx context.Context, cfg options) ([]time.Duration, error) {
	wsURL, err := wsEndpoint(cfg.baseURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("open websocket: %w", err)
	}
	defer conn.Close()

	latencies := make([]time.Duration, 0, cfg.turns)
	for i := 0; i < cfg.turns; i++ {
		question := cfg.texts[i%len(cfg.texts)]
		turnID := fmt.Sprintf("perf-%d", i+1)

		start := time.Now()
		err := conn.WriteJSON(protocol.ClientMessage{
			Type:    protocol.TypeClientMessage,
			TurnID:  turnID,
			Message: question,
		})
		if err != nil {
			return nil, fmt.Errorf("turn %d write: %w", i+1, err)
		}

		deltas := 0
		for {
			_ = conn.SetReadDeadline(time.Now().Add(cfg.turnTimeout))
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return nil, fmt.Errorf("turn %d read: %w", i+1, err)
			}
			var env protocol.Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				continue
			}
			if env.Type == protocol.TypeAnswerDelta {
				deltas++
				continue
			}
			if env.Type == protocol.TypeErrorEvent {
				return nil, fmt.Errorf("turn %d: server error: %s", i+1, string(raw))
			}
			if env.Type == protocol.TypeAnswerComplete {
				break
			}
		}
		elapsed := time.Since(start)
		latencies = append(latencies, elapsed)
		if cfg.verbose {
			fmt.Printf("turn %d: %s  deltas=%d\n", i+1, elapsed.Round(time.Millisecond), deltas)
		}
	}
	return latencies, nil
}

func wsEndpoint(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/v1/chat/ws"
	return u.String(), nil
}

func printSummary(latencies []time.Duration) {
	if len(latencies) == 0 {
		fmt.Println("no turns completed")
		return
	}
	sorted := append([]time.Duration(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	fmt.Printf("turns=%d avg=%s p50=%s p95=%s max=%s\n",
		len(sorted),
		(sum / time.Duration(len(sorted))).Round(time.Millisecond),
		percentile(sorted, 0.50).Round(time.Millisecond),
		percentile(sorted, 0.95).Round(time.Millisecond),
		sorted[len(sorted)-1].Round(time.Millisecond),
	)
}

func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}
