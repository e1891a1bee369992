package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/insurai/miria/internal/advisor"
	"github.com/insurai/miria/internal/catalog"
	"github.com/insurai/miria/internal/compare"
	"github.com/insurai/miria/internal/config"
	"github.com/insurai/miria/internal/observability"
)

type Server struct {
	cfg      config.Config
	pipeline *advisor.Pipeline
	comparer *compare.Service
	store    catalog.Store
	metrics  *observability.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func New(cfg config.Config, pipeline *advisor.Pipeline, comparer *compare.Service, store catalog.Store, metrics *observability.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		comparer: comparer,
		store:    store,
		metrics:  metrics,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so other sites cannot drive a user's advisor
				// session if the service is exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	r.Post("/v1/chat", s.handleChat)
	r.Get("/v1/chat/ws", s.handleChatWS)
	r.Get("/v1/products", s.handleListProducts)
	r.Post("/v1/compare", s.handleCompare)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"catalog_store": catalog.StoreMode(s.store),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "ready",
		"catalog_store": catalog.StoreMode(s.store),
	})
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	if s.metrics == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"generated_at": "",
			"window_size":  0,
			"stages":       []any{},
		})
		return
	}
	respondJSON(w, http.StatusOK, s.metrics.SnapshotPipelineStages())
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// chatErrorResponse keeps the safe fallback answer alongside the error so
// clients can always render something honest.
type chatErrorResponse struct {
	Error     string             `json:"error"`
	Code      string             `json:"code"`
	Answer    string             `json:"answer"`
	Citations []advisor.Citation `json:"citations"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
