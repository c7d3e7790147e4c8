package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/quizflash/internal/api"
	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/db"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/quizapi"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/worker"
	"github.com/vytor/quizflash/internal/workspace"
	"github.com/vytor/quizflash/web"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("QuizFlash Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("quiz_api_url=%s", cfg.QuizAPIURL)
	log.Debug("http_timeout=%s", cfg.HTTPTimeout())
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("fetch_worker_count=%d", cfg.FetchWorkerCount)
	log.Debug("fetch_queue_size=%d", cfg.FetchQueueSize)
	log.Debug("workspace_idle_ttl=%s", cfg.WorkspaceIdleTTL())
	log.Debug("max_upload_mb=%d", cfg.MaxUploadMB)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates(web.Templates)
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	fetchPool := worker.NewPool(cfg.FetchWorkerCount, cfg.FetchQueueSize)
	client := quizapi.New(cfg.QuizAPIURL, cfg.HTTPTimeout())

	topicService := services.NewTopicService(sqlite.NewTopicRepository(database.DB))
	quizService := services.NewQuizService(jobs.NewWorkerQueue(fetchPool, client), topicService)
	registry := workspace.NewRegistry()

	srv := &api.Server{
		Workspaces:     registry,
		QuizService:    quizService,
		TopicService:   topicService,
		Templates:      tmpl,
		DB:             database,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CORSOrigins:    cfg.CORSOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	fetchPool.Start(ctx)
	go registry.RunSweeper(ctx, sweepInterval, cfg.WorkspaceIdleTTL())

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(web.Static()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Closing workspaces cancels in-flight fetches before the pool drains.
	log.Debug("closing %d workspaces", registry.Len())
	registry.Close()
	cancel()
	log.Debug("stopping fetch pool")
	fetchPool.Stop()

	log.Info("===========================================")
	log.Info("QuizFlash Server Stopped")
	log.Info("===========================================")
}
