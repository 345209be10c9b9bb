// Package engine defines the text-generation collaborator the chat pipeline
// depends on, along with failure classification, retries and a concurrency
// bound shared by every engine implementation.
package engine

import "context"

// Params are the generation knobs passed with every prompt.
type Params struct {
	MaxNewTokens      int
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64

	// Stop ends generation when any of these sequences is produced.
	Stop []string
}

// DefaultParams returns the tuned defaults for companion replies.
func DefaultParams() Params {
	return Params{
		MaxNewTokens:      150,
		Temperature:       0.4,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
		Stop:              []string{"\nUser:"},
	}
}

// Engine generates a continuation for a prompt. Implementations return only
// the text generated after the prompt and classify failures as ErrTimeout or
// ErrUnavailable.
type Engine interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// Func adapts an ordinary function to Engine.
type Func func(ctx context.Context, prompt string, params Params) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	return f(ctx, prompt, params)
}
