package ollama

import "time"

// Options contains model inference parameters.
type Options struct {
	// Sampling parameters
	Temperature *float64 `json:"temperature,omitempty"` // Creativity (0.0-2.0)
	TopP        *float64 `json:"top_p,omitempty"`       // Nucleus sampling threshold

	// Length parameters
	NumPredict *int `json:"num_predict,omitempty"` // Max tokens to generate

	// Repetition control
	RepeatPenalty *float64 `json:"repeat_penalty,omitempty"` // Penalty for repeating tokens

	// Stop sequences
	Stop []string `json:"stop,omitempty"` // Stop generation at these sequences
}

// GenerateRequest is an Ollama /api/generate request.
type GenerateRequest struct {
	Model  string `json:"model"`  // Model name (e.g., "llama2:7b-chat")
	Prompt string `json:"prompt"` // Full prompt text
	Raw    bool   `json:"raw"`    // Send the prompt without applying the model template
	Stream bool   `json:"stream"` // Always false; the reply is needed in full

	Options *Options `json:"options,omitempty"`

	// Keep model loaded
	KeepAlive string `json:"keep_alive,omitempty"`
}

// GenerateResponse is a non-streaming Ollama /api/generate response.
type GenerateResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Response  string    `json:"response"` // Continuation only, the prompt is not echoed
	Done      bool      `json:"done"`

	// Metrics
	TotalDuration   int64 `json:"total_duration,omitempty"`
	PromptEvalCount int   `json:"prompt_eval_count,omitempty"`
	EvalCount       int   `json:"eval_count,omitempty"`
	EvalDuration    int64 `json:"eval_duration,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
