// Package llm provides the internal representations of chat requests, history
// turns and error payloads exchanged with sage clients.
package llm

// ErrorResponse represents an error returned to an API client.
type ErrorResponse struct {
	Error string `json:"error"`
}
