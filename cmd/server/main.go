package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aditya-k24/AlgoPulse/internal/api"
	"github.com/Aditya-k24/AlgoPulse/internal/config"
	"github.com/Aditya-k24/AlgoPulse/internal/db"
	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/notify"
	"github.com/Aditya-k24/AlgoPulse/internal/repository/kv"
	"github.com/Aditya-k24/AlgoPulse/internal/repository/sqlite"
	"github.com/Aditya-k24/AlgoPulse/internal/services"
	"github.com/Aditya-k24/AlgoPulse/internal/storage"
	"github.com/Aditya-k24/AlgoPulse/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("AlgoPulse Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("storage_namespace=%s", cfg.StorageNamespace)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_plan=%s", cfg.DefaultPlan)
	log.Debug("notify_worker_count=%d", cfg.NotifyWorkerCount)
	log.Debug("notify_queue_size=%d", cfg.NotifyQueueSize)
	log.Debug("notify_dispatch_interval=%v", cfg.DispatchInterval)

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

	// Snapshot storage backed by the kv_store table
	store := storage.NewSQLiteStorage(database.DB, cfg.StorageNamespace)

	// Repositories
	recallRepo := kv.NewRecallRepository(store)
	solvedRepo := kv.NewSolvedRepository(store)
	problemRepo := sqlite.NewProblemRepository(database.DB)

	// Notification dispatch
	notifyPool := worker.NewPool(cfg.NotifyWorkerCount, cfg.NotifyQueueSize)

	var sender notify.Sender
	if cfg.NotifyWebhookURL != "" {
		log.Info("reminders will be posted to webhook")
		sender = notify.NewWebhookSender(cfg.NotifyWebhookURL)
	} else {
		log.Info("no webhook configured, reminders will be logged")
		sender = notify.NewLogSender()
	}
	notifier := notify.NewLocalNotifier(notifyPool, sender, cfg.DispatchInterval)

	// Services
	recallService := services.NewRecallService(recallRepo, solvedRepo, problemRepo, notifier)
	recallQueryService := services.NewRecallQueryService(recallRepo, problemRepo)
	problemService := services.NewProblemService(problemRepo)

	srv := &api.Server{
		DB:                 database,
		RecallService:      recallService,
		RecallQueryService: recallQueryService,
		ProblemService:     problemService,
		Notifier:           notifier,
		DefaultPlan:        models.Plan(cfg.DefaultPlan),
	}

	ctx, cancel := context.WithCancel(context.Background())
	notifyPool.Start(ctx)
	notifier.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
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

	log.Debug("stopping notification dispatcher")
	cancel()
	notifier.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping notification pool")
	notifyPool.Stop()

	log.Info("===========================================")
	log.Info("AlgoPulse Server Stopped")
	log.Info("===========================================")
}
