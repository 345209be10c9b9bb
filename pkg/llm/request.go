package llm

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidBody is returned by DecodeConversationRequest when the body is
// not a JSON object.
var ErrInvalidBody = errors.New("request body is not a JSON object")

// ConversationRequest is a single inbound chat call.
type ConversationRequest struct {
	Message          string  `json:"message"`            // Current user message (default "")
	History          []Turn  `json:"history,omitempty"`  // Prior turns, oldest first
	System           *string `json:"system,omitempty"`   // Persona override, nil when absent
	RelationshipMode bool    `json:"isRelationshipMode"` // Selects the romantic persona
}

// DecodeConversationRequest parses a request body field by field so that a
// missing or mistyped field falls back to its default instead of failing the
// whole request. An empty body yields the zero request.
func DecodeConversationRequest(body []byte) (ConversationRequest, error) {
	var req ConversationRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return req, errors.Join(ErrInvalidBody, err)
	}

	req.Message = lenientString(fields["message"])

	if raw, ok := fields["history"]; ok {
		var history []Turn
		if err := json.Unmarshal(raw, &history); err == nil {
			req.History = history
		}
	}

	if raw, ok := fields["system"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		var system string
		if err := json.Unmarshal(raw, &system); err == nil {
			req.System = &system
		}
	}

	if raw, ok := fields["isRelationshipMode"]; ok {
		var mode bool
		if err := json.Unmarshal(raw, &mode); err == nil {
			req.RelationshipMode = mode
		}
	}

	return req, nil
}
