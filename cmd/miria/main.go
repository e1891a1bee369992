package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/insurai/miria/internal/advisor"
	"github.com/insurai/miria/internal/catalog"
	"github.com/insurai/miria/internal/compare"
	"github.com/insurai/miria/internal/config"
	"github.com/insurai/miria/internal/generation"
	"github.com/insurai/miria/internal/httpapi"
	"github.com/insurai/miria/internal/observability"
	"github.com/insurai/miria/internal/retrieval"
)

// generatorBridge exposes a generation adapter through the narrow interface
// the pipeline consumes.
type generatorBridge struct {
	adapter generation.Adapter
}

func (g generatorBridge) Generate(ctx context.Context, systemInstructions, userMessage string, onDelta func(string) error) (string, error) {
	resp, err := g.adapter.Complete(ctx, generation.Request{
		SystemInstructions: systemInstructions,
		UserMessage:        userMessage,
	}, generation.DeltaHandler(onDelta))
	return resp.Text, err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	vocab, err := advisor.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		logger.Fatal("vocabulary load failed", zap.Error(err))
	}

	ctx := context.Background()
	store, err := catalog.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("catalog store init failed", zap.Error(err))
	}
	defer store.Close()
	logger.Info("catalog store ready", zap.String("mode", catalog.StoreMode(store)))

	retriever := retrieval.NewClient(cfg.RetrievalURL, cfg.RetrievalTimeout)
	if cfg.RetrievalURL == "" {
		logger.Info("retrieval: mock (RETRIEVAL_SERVICE_URL not set)")
	} else {
		logger.Info("retrieval: search service", zap.String("url", cfg.RetrievalURL))
	}

	adapter, err := generation.NewAdapter(generation.Config{
		Mode:        cfg.GenerationMode,
		URL:         cfg.GenerationURL,
		APIKey:      cfg.GenerationAPIKey,
		Model:       cfg.GenerationModel,
		Temperature: cfg.GenerationTemperature,
		MaxTokens:   cfg.GenerationMaxTokens,
	})
	if err != nil {
		logger.Fatal("generation adapter init failed", zap.Error(err))
	}

	pipeline := advisor.NewPipeline(
		vocab,
		retriever,
		generatorBridge{adapter: adapter},
		metrics,
		logger.Named("chat-api"),
		cfg.RetrievalTopK,
		cfg.RequestTimeout,
	)

	comparer := compare.NewService(store, retriever, adapter, vocab, logger.Named("compare"))

	api := httpapi.New(cfg, pipeline, comparer, store, metrics, logger.Named("httpapi"))
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		_ = httpServer.Close()
	}

	logger.Info("shutdown complete")
}

func buildLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}
