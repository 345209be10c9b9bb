// Package api serves the sage chat endpoint over HTTP.
package api

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/papercomputeco/sage/pkg/chat"
	"github.com/papercomputeco/sage/pkg/engine"
	"github.com/papercomputeco/sage/pkg/llm"
	"github.com/papercomputeco/sage/pkg/stream"
)

// Response headers set on chat replies.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderFallback  = "X-Sage-Fallback"
)

// Server is the chat API server. It keeps no conversation state: every
// request carries its own history and is answered independently.
type Server struct {
	config   Config
	pipeline *chat.Pipeline
	emitter  stream.Emitter
	logger   *zap.Logger
	server   *fiber.App
}

// NewServer creates a new Server answering with pipeline.
func NewServer(config Config, pipeline *chat.Pipeline, logger *zap.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline must be provided")
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		pipeline: pipeline,
		emitter:  stream.Emitter{Delay: config.StreamDelay},
		logger:   logger,
		server:   app,
	}

	app.Post("/chat", s.handleChat)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s, nil
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting sage server",
		zap.String("listen", s.config.ListenAddr),
		zap.Duration("stream_delay", s.config.StreamDelay),
	)

	return s.server.Listen(s.config.ListenAddr)
}

// RunWithListener starts the server on an existing listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting sage server", zap.String("listen", listener.Addr().String()))

	return s.server.Listener(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// Handler exposes the API as a net/http handler for embedding in another
// server. Replies served through it are buffered rather than paced.
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.server)
}

// handleChat computes the complete reply, then plays it back word by word.
// Engine failures never surface as HTTP errors: the pipeline substitutes a
// fallback reply, which is flagged with the X-Sage-Fallback header.
func (s *Server) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()
	requestID := uuid.NewString()
	log := s.logger.With(zap.String("request_id", requestID))
	c.Set(HeaderRequestID, requestID)

	req, err := llm.DecodeConversationRequest(c.Body())
	if err != nil {
		log.Warn("failed to parse request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	log.Debug("received chat request",
		zap.Int("message_len", len(req.Message)),
		zap.Int("history_len", len(req.History)),
		zap.Bool("relationship_mode", req.RelationshipMode),
	)

	reply := s.pipeline.Reply(c.UserContext(), req)
	if reply.Source == chat.SourceFallback {
		c.Set(HeaderFallback, engine.Kind(reply.Err))
	}

	log.Info("reply ready",
		zap.String("source", string(reply.Source)),
		zap.Int("reply_len", len(reply.Text)),
		zap.Duration("duration", time.Since(startTime)),
	)

	words := s.emitter.Emit(reply.Text)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		n, err := words.WriteTo(context.Background(), w)
		if err != nil {
			log.Warn("client went away during playback", zap.Int("bytes_written", n), zap.Error(err))
			return
		}
		log.Debug("playback complete",
			zap.Int("bytes_written", n),
			zap.Duration("duration", time.Since(startTime)),
		)
	}))

	return nil
}
