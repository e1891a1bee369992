package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/insurai/miria/internal/advisor"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req advisor.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	resp, err := s.pipeline.Respond(r.Context(), req)
	if errors.Is(err, advisor.ErrInvalidRequest) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err != nil {
		s.log.Error("chat turn failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, chatErrorResponse{
			Error:     "Internal server error",
			Code:      "generation_failed",
			Answer:    resp.Answer,
			Citations: []advisor.Citation{},
		})
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
