// Package gemini implements engine.Engine with the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/papercomputeco/sage/pkg/engine"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config configures the Gemini engine.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API endpoint. Empty uses the SDK default.
	BaseURL string
}

// Engine generates replies with a Gemini model. The prompt is sent as a
// single user text part and the model's text is returned as the continuation.
type Engine struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// New creates a Gemini engine.
func New(ctx context.Context, config Config, logger *zap.Logger) (*Engine, error) {
	if config.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Engine{client: client, model: config.Model, logger: logger}, nil
}

// Generate asks the model to continue prompt.
func (e *Engine) Generate(ctx context.Context, prompt string, params engine.Params) (string, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), generateConfig(params))
	if err != nil {
		return "", engine.Classify(fmt.Errorf("gemini generate: %w", err))
	}

	text := resp.Text()
	e.logger.Debug("received gemini response",
		zap.String("model", e.model),
		zap.Int("candidates", len(resp.Candidates)),
		zap.Int("length", len(text)),
	)
	return text, nil
}

// generateConfig maps Params onto the SDK. Gemini has no multiplicative
// repetition penalty, so RepetitionPenalty is not sent.
func generateConfig(params engine.Params) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:   genai.Ptr(float32(params.Temperature)),
		TopP:          genai.Ptr(float32(params.TopP)),
		StopSequences: params.Stop,
	}
	if params.MaxNewTokens > 0 {
		cfg.MaxOutputTokens = int32(params.MaxNewTokens)
	}
	return cfg
}

var _ engine.Engine = (*Engine)(nil)
