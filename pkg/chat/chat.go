// Package chat runs one conversation request through persona selection,
// prompt construction, generation and repair, producing the final reply text.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/papercomputeco/sage/pkg/engine"
	"github.com/papercomputeco/sage/pkg/llm"
	"github.com/papercomputeco/sage/pkg/persona"
	"github.com/papercomputeco/sage/pkg/prompt"
	"github.com/papercomputeco/sage/pkg/repair"
)

// EngineFallback is the reply sent when the engine fails or times out.
const EngineFallback = "I'm having a little trouble finding my words right now. Could you say that again in a moment? 💛"

// DefaultTimeout bounds a single engine call.
const DefaultTimeout = 60 * time.Second

// Source tells where a reply's text came from.
type Source string

const (
	SourceEngine   Source = "engine"   // generated, then repaired
	SourceGeneric  Source = "generic"  // canned reply for a trivial input
	SourceFallback Source = "fallback" // engine failed
)

// Config controls a Pipeline.
type Config struct {
	Persona persona.Selector
	Prompt  prompt.Builder
	Params  engine.Params

	// Repair post-processes engine output. Nil applies repair.DefaultPasses.
	Repair repair.Pass

	// ShortCircuitGeneric answers trivial acknowledgements from the fallback
	// table without calling the engine.
	ShortCircuitGeneric bool

	// Timeout bounds the engine call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Reply is the outcome of one request.
type Reply struct {
	Text   string
	Source Source

	// Prompt is empty for generic replies. Raw is set only when the engine answered.
	Prompt string
	Raw    string

	// Err is the classified engine error when Source is SourceFallback.
	Err error
}

// Pipeline turns requests into replies. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	config Config
	engine engine.Engine
	logger *zap.Logger
}

// NewPipeline creates a Pipeline that generates with eng.
func NewPipeline(config Config, eng engine.Engine, logger *zap.Logger) (*Pipeline, error) {
	if eng == nil {
		return nil, errors.New("engine must be provided")
	}
	if config.Repair == nil {
		pass, err := repair.ParsePasses(repair.DefaultPasses)
		if err != nil {
			return nil, err
		}
		config.Repair = pass
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	return &Pipeline{config: config, engine: eng, logger: logger}, nil
}

// Prompt returns the prompt that would be sent for req.
func (p *Pipeline) Prompt(req llm.ConversationRequest) string {
	system := p.config.Persona.Select(req.System, req.RelationshipMode)
	return p.config.Prompt.Build(req.Message, req.History, system)
}

// Reply computes the complete reply for req. It never returns an error:
// engine failures become SourceFallback replies carrying the cause in Err.
func (p *Pipeline) Reply(ctx context.Context, req llm.ConversationRequest) Reply {
	if p.config.ShortCircuitGeneric {
		if text, ok := repair.FallbackReply(req.Message); ok {
			p.logger.Debug("answered generic input without engine",
				zap.String("message", truncate(req.Message, 50)),
			)
			return Reply{Text: text, Source: SourceGeneric}
		}
	}

	promptText := p.Prompt(req)

	p.logger.Debug("generating reply",
		zap.Int("history_len", len(req.History)),
		zap.Bool("relationship_mode", req.RelationshipMode),
		zap.Bool("system_override", req.System != nil),
		zap.Int("prompt_len", len(promptText)),
	)

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	startTime := time.Now()
	raw, err := p.engine.Generate(ctx, promptText, p.config.Params)
	if err != nil {
		err = engine.Classify(err)
		p.logger.Error("engine call failed",
			zap.String("kind", engine.Kind(err)),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		return Reply{Text: EngineFallback, Source: SourceFallback, Prompt: promptText, Err: err}
	}

	cleaned := strings.TrimSpace(strings.TrimPrefix(raw, promptText))
	text := p.config.Repair(req.Message, cleaned)

	p.logger.Debug("reply ready",
		zap.Duration("duration", time.Since(startTime)),
		zap.String("raw_preview", truncate(raw, 100)),
		zap.Bool("repaired", text != cleaned),
	)

	return Reply{Text: text, Source: SourceEngine, Prompt: promptText, Raw: raw}
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
