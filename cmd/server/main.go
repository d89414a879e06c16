package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RichardoC/advisory-board/internal/api"
	"github.com/RichardoC/advisory-board/internal/config"
	"github.com/RichardoC/advisory-board/internal/db"
	"github.com/RichardoC/advisory-board/internal/llm"
	"github.com/RichardoC/advisory-board/internal/logging"
	"github.com/RichardoC/advisory-board/internal/session"
	"github.com/RichardoC/advisory-board/internal/web"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; every chat request will fail")
	}

	// Sessions live in memory unless a database is configured
	var store session.Store = session.NewMemoryStore()
	if dsn := cfg.SessionDSN(); dsn != "" {
		database, err := db.New(ctx, dsn)
		if err != nil {
			logger.Fatal("failed to initialize database",
				zap.Error(err),
				zap.String("dsn", dsn))
		}
		defer database.Close()
		store = database
	}

	sweeper := session.NewSweeper(store, cfg.SessionTTL, logger)
	sweeper.Start()
	defer sweeper.Stop()

	llmService, err := llm.New(
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		llm.WithTimeout(cfg.RelayTimeout),
	)
	if err != nil {
		logger.Fatal("failed to initialize LLM service", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	r := api.NewEngine(logger)
	api.NewHandler(llmService, store, logger).RegisterRoutes(r.Group("/api"))
	if err := web.Register(r); err != nil {
		logger.Fatal("failed to load page templates", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", zap.Error(err))
		}
	}()

	logger.Info("Starting server",
		zap.String("addr", cfg.Addr),
		zap.String("model", cfg.OpenAI.Model))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	<-shutdownDone
	logger.Info("Server stopped")
}
