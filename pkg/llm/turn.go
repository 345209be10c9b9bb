package llm

import (
	"encoding/json"
	"strings"
)

// Role names understood in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn represents one message of caller-supplied conversation history.
type Turn struct {
	Role    string `json:"role"`    // "user" or "assistant", anything else is ignored
	Content string `json:"content"` // The message text
}

// NormalizedRole returns the role trimmed and lower-cased.
func (t Turn) NormalizedRole() string {
	return strings.ToLower(strings.TrimSpace(t.Role))
}

// UnmarshalJSON decodes a turn leniently: a missing field or a field that is
// not a JSON string decodes as the empty string.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = Turn{}
		return nil
	}

	*t = Turn{
		Role:    lenientString(raw["role"]),
		Content: lenientString(raw["content"]),
	}
	return nil
}

func lenientString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
