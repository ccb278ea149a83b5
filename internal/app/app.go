// Package app provides the application initialization and lifecycle management
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/remediator/internal/config"
	"github.com/tildaslashalef/remediator/internal/loggy"
	"github.com/tildaslashalef/remediator/internal/openai"
	"github.com/tildaslashalef/remediator/internal/remediation"
	"github.com/tildaslashalef/remediator/internal/server"
)

// App represents the application instance with its dependencies
type App struct {
	Config      *config.Config
	Remediation *remediation.Service
	Server      *server.Server
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	// Initialize configuration
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("application initializing",
		"model", cfg.OpenAI.Model,
		"prompt_style", cfg.Remediation.PromptStyle,
		"log_level", cfg.Logging.Level,
	)

	logger := loggy.GetGlobalLogger()

	// Initialize the completion client and the remediation pipeline
	client := openai.NewClient(cfg.OpenAI)

	remediationService, err := remediation.NewService(client, cfg.Remediation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remediation service: %w", err)
	}

	httpServer := server.New(cfg.Server, remediationService, logger)

	loggy.Info("application initialized successfully")
	return &App{
		Config:      cfg,
		Remediation: remediationService,
		Server:      httpServer,
	}, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set the global configuration
	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// Serve runs the HTTP server until the process receives SIGINT or SIGTERM,
// then drains in-flight requests within the configured shutdown timeout.
func (app *App) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return <-errCh
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("shutting down application")
	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
