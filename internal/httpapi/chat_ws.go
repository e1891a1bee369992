package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/insurai/miria/internal/advisor"
	"github.com/insurai/miria/internal/protocol"
)

// handleChatWS serves the streaming chat variant. The connection handles
// one turn at a time: each client_message runs the full pipeline, with
// generation deltas forwarded as answer_delta events and the validated
// result as answer_complete. All writes stay on this goroutine.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				Code:      "invalid_client_message",
				Detail:    err.Error(),
				Retryable: false,
			})
			continue
		}

		msg, ok := parsed.(protocol.ClientMessage)
		if !ok {
			continue
		}
		s.runStreamedTurn(r, conn, msg)
	}
}

func (s *Server) runStreamedTurn(r *http.Request, conn *websocket.Conn, msg protocol.ClientMessage) {
	turnID := strings.TrimSpace(msg.TurnID)
	if turnID == "" {
		turnID = uuid.NewString()
	}

	req := advisor.ChatRequest{
		Message: msg.Message,
		Profile: msg.Profile,
		History: msg.History,
	}

	resp, err := s.pipeline.RespondStream(r.Context(), req, func(delta string) error {
		return s.writeWS(conn, protocol.AnswerDelta{
			Type:      protocol.TypeAnswerDelta,
			TurnID:    turnID,
			TextDelta: delta,
		})
	})
	if err != nil {
		s.log.Warn("streamed turn failed", zap.String("turn_id", turnID), zap.Error(err))
		code := "generation_failed"
		if errors.Is(err, advisor.ErrInvalidRequest) {
			code = "invalid_request"
		}
		_ = s.writeWS(conn, protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			TurnID:    turnID,
			Code:      code,
			Detail:    err.Error(),
			Retryable: code == "generation_failed",
		})
		return
	}

	_ = s.writeWS(conn, protocol.AnswerComplete{
		Type:      protocol.TypeAnswerComplete,
		TurnID:    turnID,
		Answer:    resp.Answer,
		Citations: resp.Citations,
		Rejected:  advisor.IsRejection(resp),
	})
}

func (s *Server) writeWS(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(v)
}
