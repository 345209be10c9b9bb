// Package wire builds sage components from a loaded configuration.
package wire

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/sage/pkg/chat"
	"github.com/papercomputeco/sage/pkg/config"
	"github.com/papercomputeco/sage/pkg/engine"
	"github.com/papercomputeco/sage/pkg/engine/gemini"
	"github.com/papercomputeco/sage/pkg/engine/ollama"
	"github.com/papercomputeco/sage/pkg/persona"
	"github.com/papercomputeco/sage/pkg/prompt"
	"github.com/papercomputeco/sage/pkg/repair"
)

// Engine builds the configured provider wrapped with retries and the
// concurrency bound. Each request holds one slot across its retries.
func Engine(ctx context.Context, cfg config.Config, logger *zap.Logger) (engine.Engine, error) {
	var base engine.Engine

	switch cfg.Engine.Provider {
	case config.ProviderOllama:
		e, err := ollama.New(ollama.Config{URL: cfg.Engine.URL, Model: cfg.Engine.Model}, logger.Named("ollama"))
		if err != nil {
			return nil, fmt.Errorf("could not create ollama engine: %w", err)
		}
		base = e
	case config.ProviderGemini:
		e, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.Engine.APIKey,
			Model:   cfg.Engine.Model,
			BaseURL: cfg.Engine.URL,
		}, logger.Named("gemini"))
		if err != nil {
			return nil, fmt.Errorf("could not create gemini engine: %w", err)
		}
		base = e
	default:
		return nil, fmt.Errorf("unknown engine provider %q", cfg.Engine.Provider)
	}

	retried := engine.WithRetry(base, cfg.Engine.Retries, cfg.Engine.RetryBackoff, logger)
	return engine.Limit(retried, cfg.Engine.MaxConcurrent), nil
}

// Persona returns the persona selector with configured overrides applied.
func Persona(cfg config.Config) persona.Selector {
	return persona.New(cfg.Persona.Supportive, cfg.Persona.Romantic)
}

// PromptBuilder returns the configured prompt builder.
func PromptBuilder(cfg config.Config) prompt.Builder {
	return prompt.Builder{Window: cfg.Policy.HistoryWindow}
}

// Pipeline builds the chat pipeline around eng.
func Pipeline(cfg config.Config, eng engine.Engine, logger *zap.Logger) (*chat.Pipeline, error) {
	pass, err := repair.ParsePasses(cfg.Policy.RepairPasses)
	if err != nil {
		return nil, err
	}

	return chat.NewPipeline(chat.Config{
		Persona:             Persona(cfg),
		Prompt:              PromptBuilder(cfg),
		Params:              cfg.Params(),
		Repair:              pass,
		ShortCircuitGeneric: cfg.Policy.ShortCircuitGeneric,
		Timeout:             cfg.Engine.Timeout,
	}, eng, logger.Named("chat"))
}
