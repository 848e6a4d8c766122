package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hupe1980/panelmesh/engine"
	"github.com/hupe1980/panelmesh/internal/config"
	"github.com/hupe1980/panelmesh/logging"
	"github.com/hupe1980/panelmesh/model"
	"github.com/hupe1980/panelmesh/model/anthropic"
	"github.com/hupe1980/panelmesh/model/gemini"
	"github.com/hupe1980/panelmesh/model/openai"
	"github.com/hupe1980/panelmesh/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the panel discussion HTTP server",
	Long: `Starts the HTTP daemon: JSON endpoints under /api/panel, with SSE
streaming of rounds when a request sets "stream": true. Generation goes
through the provider named in PANELMESH_PROVIDER (gemini by default).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides PANELMESH_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, false)

	registry, err := buildRegistry(cfg.Registry)
	if err != nil {
		return err
	}
	if cfg.Registry.PersonasDir != "" {
		logger.Info("Loaded persona definitions", "dir", cfg.Registry.PersonasDir)
		if cfg.Registry.Watch {
			if err := registry.Watch(ctx, cfg.Registry.PersonasDir, logger); err != nil {
				return fmt.Errorf("watch personas dir: %w", err)
			}
		}
	}

	mdl, err := buildModel(ctx, cfg.Model)
	if err != nil {
		return fmt.Errorf("initialize %s provider: %w", cfg.Model.Provider, err)
	}

	eng := engine.New(registry, mdl, func(o *engine.Options) {
		o.Config = engine.Config{
			SessionTTL:       cfg.Engine.SessionTTL,
			TurnTimeout:      cfg.Engine.TurnTimeout,
			ContextWindow:    cfg.Engine.ContextWindow,
			SummaryThreshold: cfg.Engine.SummaryThreshold,
			SummaryWindow:    cfg.Engine.SummaryWindow,
		}
		o.Logger = logger
	})

	srv := server.New(eng, func(o *server.Options) {
		o.Logger = logger
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("paneld listening", "addr", cfg.Server.Addr, "provider", cfg.Model.Provider)
	return serveHTTP(ctx, httpSrv)
}

func serveHTTP(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildModel constructs the configured provider. API keys left empty fall
// back to each SDK's own environment lookup.
func buildModel(ctx context.Context, cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		return model.NewMockModel(), nil

	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.Temperature != nil {
				o.Temperature = *cfg.Temperature
			}
		}), nil

	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Model != "" {
				o.Model = sdkanthropic.Model(cfg.Model)
			}
			if cfg.Temperature != nil {
				o.Temperature = *cfg.Temperature
			}
		}), nil

	case config.ProviderGemini:
		return gemini.NewModel(ctx, func(o *gemini.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.Temperature != nil {
				o.Temperature = float32(*cfg.Temperature)
			}
		})
	}

	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
