package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cookme/web/config"
	httpDelivery "github.com/cookme/web/internal/delivery/http"
	"github.com/cookme/web/internal/infrastructure/spoonacular"
	"github.com/cookme/web/internal/usecase"
	"github.com/cookme/web/internal/view"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("cookme stopped")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "cookme",
		Usage:   "Find recipes for the ingredients you have",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (default: config.yaml in ., ./config or /etc/cookme/)",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on, overrides server.port",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error), overrides log.level",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port := cmd.String("port"); port != "" {
		cfg.Server.Port = port
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	logger.Infof("Starting CookMe v%s", version)
	logger.Infof("Environment: %s", cfg.Server.Environment)
	logger.Infof("Port: %s", cfg.Server.Port)

	client, err := spoonacular.NewClient(cfg.Spoonacular.APIKey, cfg.Spoonacular.BaseURL,
		spoonacular.WithTimeout(cfg.Spoonacular.Timeout),
		spoonacular.WithInstructionWorkers(cfg.Search.InstructionWorkers),
		spoonacular.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" && logger.IsLevelEnabled(logrus.DebugLevel) {
		client.SetDebug(true)
		logger.Info("Spoonacular client debug mode enabled")
	}
	logger.Infof("Spoonacular API configured: %s (timeout: %s, instruction workers: %d)",
		cfg.Spoonacular.BaseURL, cfg.Spoonacular.Timeout, cfg.Search.InstructionWorkers)

	renderer, err := view.NewRenderer(cfg.Templates.Path)
	if err != nil {
		return fmt.Errorf("failed to load page template: %w", err)
	}

	recipeService := usecase.NewRecipeService(client, usecase.RecipeServiceConfig{
		FetchInstructions: cfg.Search.FetchInstructions,
	})

	handler := httpDelivery.NewHandler(recipeService, renderer, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newLogger builds the process logger from configuration
func newLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Package-level logrus calls share the configuration
	logrus.SetOutput(logger.Out)
	logrus.SetLevel(level)
	logrus.SetFormatter(logger.Formatter)

	return logger, nil
}
