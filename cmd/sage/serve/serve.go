package servecmder

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/sage/api"
	"github.com/papercomputeco/sage/cmd/sage/wire"
	"github.com/papercomputeco/sage/pkg/config"
	"github.com/papercomputeco/sage/pkg/logger"
)

const serveLongDesc string = `Run the sage chat server.

Settings are read from an optional TOML file and may be overridden
with flags. Replies are generated in full by the configured engine,
repaired, and then streamed back word by word.

Examples:
  sage serve
  sage serve --config sage.toml --debug
  sage serve --engine gemini --model gemini-2.5-flash --stream-delay 40ms`

const serveShortDesc string = "Run the sage chat server"

type serveCommander struct {
	configPath  string
	listen      string
	debug       bool
	provider    string
	engineURL   string
	model       string
	streamDelay time.Duration
}

func NewServeCmd() *cobra.Command {
	return newServeCmd(&serveCommander{})
}

func newServeCmd(cmder *serveCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (default :5005)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&cmder.provider, "engine", "", "Generation engine: ollama or gemini")
	cmd.Flags().StringVar(&cmder.engineURL, "engine-url", "", "Engine server URL")
	cmd.Flags().StringVar(&cmder.model, "model", "", "Model name")
	cmd.Flags().DurationVar(&cmder.streamDelay, "stream-delay", 0, "Pause between streamed words (default 80ms)")

	return cmd
}

// loadConfig reads the config file and applies any flags that were set.
func (c *serveCommander) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen = c.listen
	}
	if flags.Changed("debug") {
		cfg.Debug = c.debug
	}
	if flags.Changed("engine") {
		cfg.Engine.Provider = c.provider
	}
	if flags.Changed("engine-url") {
		cfg.Engine.URL = c.engineURL
	}
	if flags.Changed("model") {
		cfg.Engine.Model = c.model
	}
	if flags.Changed("stream-delay") {
		cfg.Stream.Delay = c.streamDelay
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newServer builds the API server for cfg.
func newServer(ctx context.Context, cfg config.Config, log *zap.Logger) (*api.Server, error) {
	eng, err := wire.Engine(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	pipeline, err := wire.Pipeline(cfg, eng, log)
	if err != nil {
		return nil, fmt.Errorf("could not build pipeline: %w", err)
	}

	return api.NewServer(api.Config{
		ListenAddr:  cfg.Listen,
		StreamDelay: cfg.Stream.Delay,
	}, pipeline, log.Named("api"))
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()

	log.Info("sage starting",
		zap.String("listen", cfg.Listen),
		zap.String("engine", cfg.Engine.Provider),
		zap.String("model", cfg.Engine.Model),
		zap.Bool("debug", cfg.Debug),
	)

	srv, err := newServer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
