package api

import "time"

// Config is the API server configuration.
type Config struct {
	// Address to listen on (e.g., ":5005")
	ListenAddr string

	// StreamDelay is the pause between streamed reply words.
	StreamDelay time.Duration
}
