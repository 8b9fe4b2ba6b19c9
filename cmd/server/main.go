package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"emotionix.ai/emotionix/internal/api"
	"emotionix.ai/emotionix/internal/auth"
	"emotionix.ai/emotionix/internal/config"
	"emotionix.ai/emotionix/internal/core"
	"emotionix.ai/emotionix/internal/store"
)

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.EnvFileLoaded {
		logger.Debug("No .env file found, using environment only")
	}
	if cfg.SecretKey == config.DefaultSecretKey {
		logger.Warn("SECRET_KEY is the development default, sessions are forgeable")
	}

	ctx := context.Background()

	// Initialize database store
	dbStore, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbStore.Close()

	// Initialize the remote generator, if a credential is configured
	remote, closeRemote, err := core.NewRemoteGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	defer closeRemote()

	responder := core.NewResponder(remote, cfg.LLMTimeout, logger)
	chatService := core.NewChatService(dbStore, responder, cfg.Model(), logger)
	userService := core.NewUserService(dbStore, logger)
	sessions := auth.NewSessions(cfg.SecretKey, cfg.SessionTTL)

	// Initialize API Handler and Router
	apiHandler, err := api.NewAPIHandler(chatService, userService, sessions, logger, cfg.MaxUploadBytes)
	if err != nil {
		logger.Fatal("Failed to initialize API handler", zap.Error(err))
	}
	router := api.NewRouter(apiHandler, cfg.AnonymousTools)

	// Start HTTP server
	serverAddr := cfg.Addr()

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("Starting server",
			zap.String("addr", serverAddr),
			zap.Bool("remote_llm", responder.HasRemote()),
			zap.Bool("anonymous_tools", cfg.AnonymousTools))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Could not listen", zap.String("addr", serverAddr), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("Server exiting gracefully")
}
