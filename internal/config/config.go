package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the advisor service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	RequestTimeout   time.Duration
	MetricsNamespace string
	LogLevel         string

	AllowAnyOrigin bool

	RetrievalURL     string
	RetrievalTimeout time.Duration
	RetrievalTopK    int

	GenerationMode        string
	GenerationURL         string
	GenerationAPIKey      string
	GenerationModel       string
	GenerationTemperature float64
	GenerationMaxTokens   int

	DatabaseURL    string
	VocabularyPath string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "miria"),
		LogLevel:         envOrDefault("APP_LOG_LEVEL", "info"),
		AllowAnyOrigin:   false,
		RetrievalURL:     stringsTrimSpace("RETRIEVAL_SERVICE_URL"),
		RetrievalTimeout: 10 * time.Second,
		// The chat path always asks the search service for six ranked excerpts.
		RetrievalTopK:  6,
		GenerationMode: envOrDefault("GENERATION_MODE", "auto"),
		GenerationURL:  stringsTrimSpace("GENERATION_HTTP_URL"),
		// API key is optional for local OpenAI-compatible backends.
		GenerationAPIKey: stringsTrimSpace("GENERATION_API_KEY"),
		GenerationModel:  envOrDefault("GENERATION_MODEL", "llama-3.3-70b-versatile"),
		// Low temperature keeps answers close to the retrieved documents.
		GenerationTemperature: 0.1,
		GenerationMaxTokens:   1024,
		DatabaseURL:           stringsTrimSpace("DATABASE_URL"),
		VocabularyPath:        stringsTrimSpace("APP_VOCABULARY_PATH"),
		ShutdownTimeout:       15 * time.Second,
		RequestTimeout:        60 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout, err = durationFromEnv("APP_REQUEST_TIMEOUT", cfg.RequestTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.RetrievalTimeout, err = durationFromEnv("RETRIEVAL_TIMEOUT", cfg.RetrievalTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.RetrievalTopK, err = intFromEnv("RETRIEVAL_TOP_K", cfg.RetrievalTopK)
	if err != nil {
		return Config{}, err
	}
	cfg.GenerationTemperature, err = floatFromEnv("GENERATION_TEMPERATURE", cfg.GenerationTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.GenerationMaxTokens, err = intFromEnv("GENERATION_MAX_TOKENS", cfg.GenerationMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.RequestTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_REQUEST_TIMEOUT must be at least 1s")
	}
	if cfg.RetrievalTopK <= 0 {
		return Config{}, fmt.Errorf("RETRIEVAL_TOP_K must be positive")
	}
	if cfg.GenerationMaxTokens <= 0 {
		return Config{}, fmt.Errorf("GENERATION_MAX_TOKENS must be positive")
	}
	if cfg.GenerationTemperature < 0 || cfg.GenerationTemperature > 2 {
		return Config{}, fmt.Errorf("GENERATION_TEMPERATURE must be in [0, 2]")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
