package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Vistagram/internal/api/handlers/uploads"
	"Vistagram/internal/api/middleware"
	"Vistagram/internal/api/routes"
	"Vistagram/internal/config"
	"Vistagram/internal/core/captions"
	"Vistagram/internal/core/images"
	"Vistagram/internal/core/posts"
	"Vistagram/internal/db"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, repo, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("failed to close database", "error", closeErr)
		}
	}()

	postService := posts.NewPostService(repo, cfg.PublicURL, logger)

	imageStore, err := images.NewDiskStore(cfg.UploadDir, cfg.MaxUploadBytes, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}
	uploadHandler, err := uploads.NewHandler(imageStore.Dir(), 0)
	if err != nil {
		return err
	}

	var completer captions.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = captions.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		logger.Info("AI caption generation enabled", "model", cfg.OpenAIModel)
	} else {
		logger.Info("OPENAI_API_KEY not set, captions use the fallback table")
	}
	captionGenerator := captions.NewGenerator(completer, captions.Config{
		Timeout:           cfg.CaptionTimeout,
		RequestsPerMinute: cfg.CaptionRequestsPerMinute,
	}, logger)

	authMiddleware := middleware.NewJWTAuthMiddleware(cfg.JWTSecret, logger)
	if !authMiddleware.Enabled() {
		logger.Info("JWT_SECRET not set, usernames are taken from request bodies")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()

	router := routes.NewRouter(routes.RouterDeps{
		Posts:          postService,
		Store:          repo,
		Images:         imageStore,
		Uploads:        uploadHandler,
		Captions:       captionGenerator,
		Auth:           authMiddleware,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxImageBytes:  cfg.MaxUploadBytes,
		TrustProxy:     cfg.TrustProxy,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Vistagram server starting",
			"port", cfg.Port,
			"database", cfg.DatabaseDriver,
			"upload_dir", cfg.UploadDir,
			"public_url", cfg.PublicURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
