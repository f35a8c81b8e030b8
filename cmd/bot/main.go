package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/joshua-takyi/meetbot/internal/config"
	"github.com/joshua-takyi/meetbot/internal/connect"
	"github.com/joshua-takyi/meetbot/internal/container"
	"github.com/joshua-takyi/meetbot/internal/routes"
	"github.com/joshua-takyi/meetbot/internal/telegram"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting meetbot", "environment", cfg.Environment, "mode", cfg.Mode, "store", cfg.Store)

	if err := run(cfg, logger); err != nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Bot exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	admins, err := cfg.AdminIDs()
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		logger.Warn("ADMINS is empty, admin commands are disabled")
	}

	store, closeStore, err := connect.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Error closing event store", "error", err)
		}
	}()

	client, err := telegram.NewClient(cfg.Token, cfg.APIEndpoint, cfg.Debug, logger)
	if err != nil {
		return err
	}
	logger.Info("Connected to Telegram", "bot", client.Username())

	appContainer := container.NewContainer(logger, client, store, admins, cfg.Title, loc)
	defer appContainer.BotHandler.Wait()

	opts := routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	}
	if cfg.Mode == config.ModeWebhook {
		secret := cfg.WebhookSecret
		if secret == "" {
			secret = uuid.NewString()
		}
		opts.Webhook = client
		opts.WebhookSecret = secret
		hook := strings.TrimRight(cfg.WebhookURL, "/") + "/telegram/webhook/" + secret
		if err := client.SetWebhook(hook); err != nil {
			return err
		}
		logger.Info("Webhook registered", "url", cfg.WebhookURL)
	} else if err := client.DeleteWebhook(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.HTTPEnabled {
		router, err := routes.SetupRoutes(gctx, appContainer, opts)
		if err != nil {
			return err
		}
		server := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		g.Go(func() error {
			logger.Info("Server starting", "port", cfg.Port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Server is shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if cfg.Mode == config.ModePolling {
		g.Go(func() error {
			return client.Poll(gctx, telegram.HandlerFunc(appContainer.Dispatch()))
		})
	}

	return g.Wait()
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
