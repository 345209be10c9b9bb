// Package config loads sage configuration from a TOML file over built-in
// defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/sage/pkg/chat"
	"github.com/papercomputeco/sage/pkg/engine"
	"github.com/papercomputeco/sage/pkg/prompt"
	"github.com/papercomputeco/sage/pkg/repair"
	"github.com/papercomputeco/sage/pkg/stream"
)

// Engine providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config is the complete sage configuration.
type Config struct {
	// Address to listen on (e.g., ":5005")
	Listen string `toml:"listen"`
	Debug  bool   `toml:"debug"`

	Engine     EngineConfig     `toml:"engine"`
	Generation GenerationConfig `toml:"generation"`
	Stream     StreamConfig     `toml:"stream"`
	Policy     PolicyConfig     `toml:"policy"`
	Persona    PersonaConfig    `toml:"persona"`
}

// EngineConfig selects and tunes the generation engine.
type EngineConfig struct {
	Provider string `toml:"provider"` // ollama, gemini
	URL      string `toml:"url"`      // Server or endpoint override, empty uses the provider default
	Model    string `toml:"model"`    // Empty uses the provider default
	APIKey   string `toml:"api_key"`

	// Timeout bounds one request's engine call, including retries.
	Timeout       time.Duration `toml:"timeout"`
	MaxConcurrent int           `toml:"max_concurrent"`
	Retries       int           `toml:"retries"`
	RetryBackoff  time.Duration `toml:"retry_backoff"`
}

// GenerationConfig holds the generation knobs.
type GenerationConfig struct {
	MaxNewTokens      int      `toml:"max_new_tokens"`
	Temperature       float64  `toml:"temperature"`
	TopP              float64  `toml:"top_p"`
	RepetitionPenalty float64  `toml:"repetition_penalty"`
	Stop              []string `toml:"stop"`
}

// StreamConfig controls reply playback.
type StreamConfig struct {
	Delay time.Duration `toml:"delay"`
}

// PolicyConfig decides how the pipeline composes its optional steps.
type PolicyConfig struct {
	ShortCircuitGeneric bool     `toml:"short_circuit_generic"`
	RepairPasses        []string `toml:"repair_passes"`
	HistoryWindow       int      `toml:"history_window"`
}

// PersonaConfig replaces built-in persona texts. Empty keeps the built-in.
type PersonaConfig struct {
	Supportive string `toml:"supportive"`
	Romantic   string `toml:"romantic"`
}

// Default returns the built-in configuration.
func Default() Config {
	params := engine.DefaultParams()
	return Config{
		Listen: ":5005",
		Engine: EngineConfig{
			Provider:      ProviderOllama,
			Timeout:       chat.DefaultTimeout,
			MaxConcurrent: 2,
			Retries:       1,
			RetryBackoff:  500 * time.Millisecond,
		},
		Generation: GenerationConfig{
			MaxNewTokens:      params.MaxNewTokens,
			Temperature:       params.Temperature,
			TopP:              params.TopP,
			RepetitionPenalty: params.RepetitionPenalty,
			Stop:              params.Stop,
		},
		Stream: StreamConfig{Delay: stream.DefaultDelay},
		Policy: PolicyConfig{
			RepairPasses:  append([]string(nil), repair.DefaultPasses...),
			HistoryWindow: prompt.DefaultWindow,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("could not decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	var errs []error

	switch c.Engine.Provider {
	case ProviderOllama:
	case ProviderGemini:
		if c.Engine.APIKey == "" {
			errs = append(errs, errors.New("engine.api_key is required for gemini"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown engine.provider %q", c.Engine.Provider))
	}

	if c.Engine.Timeout < 0 || c.Engine.RetryBackoff < 0 || c.Stream.Delay < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.Engine.MaxConcurrent < 0 || c.Engine.Retries < 0 {
		errs = append(errs, errors.New("engine.max_concurrent and engine.retries must not be negative"))
	}
	if c.Generation.MaxNewTokens < 0 || c.Generation.Temperature < 0 || c.Generation.TopP < 0 || c.Generation.RepetitionPenalty < 0 {
		errs = append(errs, errors.New("generation values must not be negative"))
	}
	if c.Policy.HistoryWindow < 0 {
		errs = append(errs, errors.New("policy.history_window must not be negative"))
	}
	if _, err := repair.ParsePasses(c.Policy.RepairPasses); err != nil {
		errs = append(errs, fmt.Errorf("policy.repair_passes: %w", err))
	}

	return errors.Join(errs...)
}

// Params returns the generation parameters.
func (c Config) Params() engine.Params {
	return engine.Params{
		MaxNewTokens:      c.Generation.MaxNewTokens,
		Temperature:       c.Generation.Temperature,
		TopP:              c.Generation.TopP,
		RepetitionPenalty: c.Generation.RepetitionPenalty,
		Stop:              c.Generation.Stop,
	}
}
