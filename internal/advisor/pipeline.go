package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/insurai/miria/internal/observability"
	"github.com/insurai/miria/internal/policy"
)

// ErrInvalidRequest marks a request rejected before any downstream call.
var ErrInvalidRequest = errors.New("message is required")

// User-visible fallback copy. Neither implies certainty the documents do
// not support.
const (
	// Returned with a nil error: a validator rejection is a defined
	// outcome, not a failure.
	rejectedAnswer = "Maaf, informasi yang Anda cari tidak tersedia dalam dokumen resmi yang ada. " +
		"Silakan ajukan pertanyaan lain atau hubungi agen asuransi untuk informasi lebih lanjut."
	// Returned alongside the error when generation fails.
	failureAnswer = "Maaf, terjadi kesalahan sistem. Silakan coba lagi."
)

// Retriever fetches ranked excerpts for a query.
type Retriever interface {
	Search(ctx context.Context, query string, profile *Profile, topK int) ([]Snippet, error)
}

// Generator turns a composed prompt into answer text, optionally streaming
// fragments through onDelta.
type Generator interface {
	Generate(ctx context.Context, systemInstructions, userMessage string, onDelta func(string) error) (string, error)
}

// Pipeline runs one advisor turn: memory extraction, query
// contextualization, retrieval, prompt composition, generation, validation
// and citation extraction. It holds no per-request state; every turn is a
// pure function of the caller-supplied message, profile and history.
type Pipeline struct {
	vocab     *Vocabulary
	retriever Retriever
	generator Generator
	metrics   *observability.Metrics
	log       *zap.Logger

	topK    int
	timeout time.Duration
}

func NewPipeline(vocab *Vocabulary, retriever Retriever, generator Generator, metrics *observability.Metrics, log *zap.Logger, topK int, timeout time.Duration) *Pipeline {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if topK <= 0 {
		topK = 6
	}
	return &Pipeline{
		vocab:     vocab,
		retriever: retriever,
		generator: generator,
		metrics:   metrics,
		log:       log,
		topK:      topK,
		timeout:   timeout,
	}
}

// Respond runs one turn and returns the validated answer with citations.
func (p *Pipeline) Respond(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	return p.respond(ctx, req, nil)
}

// RespondStream is Respond with generation deltas forwarded to onDelta as
// they arrive. Validation and citations still run on the complete text, so
// the returned answer may be the apology even after deltas were streamed.
func (p *Pipeline) RespondStream(ctx context.Context, req ChatRequest, onDelta func(string) error) (ChatResponse, error) {
	return p.respond(ctx, req, onDelta)
}

func (p *Pipeline) respond(ctx context.Context, req ChatRequest, onDelta func(string) error) (ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		p.countOutcome("invalid_request")
		return ChatResponse{}, ErrInvalidRequest
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	turnID := uuid.NewString()
	log := p.log.With(zap.String("turn_id", turnID))
	turnStart := time.Now()

	stageStart := time.Now()
	mem := BuildMemory(req.History, req.Profile, p.vocab)
	p.observeStage(observability.StageMemory, stageStart)

	query := EnhanceQuery(req.Message, mem, p.vocab)
	log.Info("query contextualized",
		zap.String("query", policy.Redact(query)),
		zap.Int("history_turns", len(req.History)),
		zap.String("focus", string(mem.CurrentFocus)),
	)

	stageStart = time.Now()
	snippets, err := p.retriever.Search(ctx, query, req.Profile, p.topK)
	p.observeStage(observability.StageRetrieve, stageStart)
	if err != nil {
		// Degrade gracefully: the prompt will state that no document
		// covers the question instead of failing the turn.
		log.Warn("retrieval failed, continuing without snippets", zap.Error(err))
		if p.metrics != nil {
			p.metrics.RetrievalFailures.Inc()
		}
		snippets = nil
	}
	if len(snippets) > p.topK {
		snippets = snippets[:p.topK]
	}

	prompt := ComposePrompt(mem, req.Profile, req.History, snippets)

	stageStart = time.Now()
	answer, err := p.generator.Generate(ctx, prompt, req.Message, onDelta)
	p.observeStage(observability.StageGenerate, stageStart)
	if err != nil {
		p.countOutcome("generation_error")
		return ChatResponse{Answer: failureAnswer, Citations: []Citation{}}, fmt.Errorf("generation: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		p.countOutcome("generation_error")
		return ChatResponse{Answer: failureAnswer, Citations: []Citation{}}, errors.New("generation: empty response")
	}

	stageStart = time.Now()
	verdict := Validate(answer, snippets, p.vocab)
	p.observeStage(observability.StageValidate, stageStart)
	if !verdict.IsValid {
		log.Warn("answer rejected by validation gate", zap.String("reason", string(verdict.Reason)))
		p.countOutcome("rejected")
		if p.metrics != nil {
			p.metrics.ValidatorRejections.WithLabelValues(string(verdict.Reason)).Inc()
		}
		p.observeStage(observability.StageTotal, turnStart)
		return ChatResponse{Answer: rejectedAnswer, Citations: []Citation{}}, nil
	}

	citations := ExtractCitations(answer, snippets, p.vocab)

	p.countOutcome("answered")
	if p.metrics != nil {
		p.metrics.CitationsPerAnswer.Observe(float64(len(citations)))
	}
	p.observeStage(observability.StageTotal, turnStart)
	log.Info("turn answered",
		zap.Int("snippets", len(snippets)),
		zap.Int("citations", len(citations)),
	)

	return ChatResponse{Answer: answer, Citations: citations}, nil
}

// RejectedAnswer returns the fixed apology shown in place of rejected
// answers, for callers that need to recognize it.
func RejectedAnswer() string { return rejectedAnswer }

// IsRejection reports whether a response carries the rejection apology
// instead of a grounded answer.
func IsRejection(resp ChatResponse) bool { return resp.Answer == rejectedAnswer }

// FailureAnswer returns the safe fallback shown on generation failure.
func FailureAnswer() string { return failureAnswer }

func (p *Pipeline) observeStage(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveStage(stage, time.Since(start))
	}
}

func (p *Pipeline) countOutcome(outcome string) {
	if p.metrics != nil {
		p.metrics.ChatRequests.WithLabelValues(outcome).Inc()
	}
}
