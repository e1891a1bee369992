package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/insurai/miria/internal/advisor"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeClientMessage  MessageType = "client_message"
	TypeAnswerDelta    MessageType = "answer_delta"
	TypeAnswerComplete MessageType = "answer_complete"
	TypeErrorEvent     MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ClientMessage is one advisor turn submitted over the websocket. The
// caller supplies the history it wants used, same as the REST path.
type ClientMessage struct {
	Type    MessageType      `json:"type"`
	TurnID  string           `json:"turn_id,omitempty"`
	Message string           `json:"message"`
	Profile *advisor.Profile `json:"profile,omitempty"`
	History []advisor.Turn   `json:"conversation_history,omitempty"`
}

// AnswerDelta streams one generated text fragment.
type AnswerDelta struct {
	Type      MessageType `json:"type"`
	TurnID    string      `json:"turn_id"`
	TextDelta string      `json:"text_delta"`
}

// AnswerComplete carries the validated final answer with citations. When
// the validation gate rejected the generated text, Answer holds the
// apology, Citations is empty and Rejected is true; streamed deltas from
// the rejected draft must be discarded by the client.
type AnswerComplete struct {
	Type      MessageType        `json:"type"`
	TurnID    string             `json:"turn_id"`
	Answer    string             `json:"answer"`
	Citations []advisor.Citation `json:"citations"`
	Rejected  bool               `json:"rejected,omitempty"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	TurnID    string      `json:"turn_id,omitempty"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail"`
	Retryable bool        `json:"retryable"`
}

// ParseClientMessage decodes one inbound websocket payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeClientMessage:
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, env.Type)
	}
}
