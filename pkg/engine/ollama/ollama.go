// Package ollama implements engine.Engine against an Ollama server's raw
// completion endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/sage/pkg/engine"
)

// Defaults used for empty Config fields.
const (
	DefaultURL   = "http://localhost:11434"
	DefaultModel = "llama2:7b-chat"
)

// Config configures the Ollama engine.
type Config struct {
	// Ollama server URL, DefaultURL when empty
	URL string

	// Model to generate with, DefaultModel when empty
	Model string

	// KeepAlive is passed through to keep the model loaded between requests.
	KeepAlive string
}

// Engine generates replies through Ollama's /api/generate endpoint.
type Engine struct {
	config     Config
	logger     *zap.Logger
	httpClient *http.Client
}

// New creates an Ollama engine.
func New(config Config, logger *zap.Logger) (*Engine, error) {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if _, err := url.Parse(config.URL); err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}
	config.URL = strings.TrimRight(config.URL, "/")

	return &Engine{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			// Local models can be slow; callers bound each request with a context deadline
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// Generate sends prompt in raw mode and returns only the continuation.
func (e *Engine) Generate(ctx context.Context, prompt string, params engine.Params) (string, error) {
	out, err := e.generate(ctx, prompt, params)
	return out, engine.Classify(err)
}

func (e *Engine) generate(ctx context.Context, prompt string, params engine.Params) (string, error) {
	req := GenerateRequest{
		Model:     e.config.Model,
		Prompt:    prompt,
		Raw:       true,
		Stream:    false,
		Options:   toOptions(params),
		KeepAlive: e.config.KeepAlive,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	upstreamURL := e.config.URL + "/api/generate"
	e.logger.Debug("sending prompt to ollama",
		zap.String("url", upstreamURL),
		zap.String("model", e.config.Model),
		zap.Int("body_size", len(reqBody)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, upstreamURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("ollama returned %d: %s", httpResp.StatusCode, apiErr.Error)
		}
		return "", fmt.Errorf("ollama returned %d: %s", httpResp.StatusCode, string(body))
	}

	var resp GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	e.logger.Debug("received ollama response",
		zap.String("model", resp.Model),
		zap.Int("eval_count", resp.EvalCount),
		zap.Duration("total_duration", time.Duration(resp.TotalDuration)),
	)

	return resp.Response, nil
}

func toOptions(params engine.Params) *Options {
	opts := &Options{
		Temperature:   &params.Temperature,
		TopP:          &params.TopP,
		RepeatPenalty: &params.RepetitionPenalty,
		Stop:          params.Stop,
	}
	if params.MaxNewTokens > 0 {
		opts.NumPredict = &params.MaxNewTokens
	}
	return opts
}

var _ engine.Engine = (*Engine)(nil)
