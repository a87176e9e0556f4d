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

	"github.com/joho/godotenv"
	"github.com/samarthumrao/BrandPulse-AI/internal/api"
	"github.com/samarthumrao/BrandPulse-AI/internal/audit"
	"github.com/samarthumrao/BrandPulse-AI/internal/cache"
	"github.com/samarthumrao/BrandPulse-AI/internal/config"
	"github.com/samarthumrao/BrandPulse-AI/internal/gemini"
	"github.com/samarthumrao/BrandPulse-AI/internal/metrics"
	"github.com/samarthumrao/BrandPulse-AI/internal/notifications"
	"github.com/samarthumrao/BrandPulse-AI/internal/scheduler"
	"github.com/samarthumrao/BrandPulse-AI/internal/session"
	"github.com/samarthumrao/BrandPulse-AI/internal/storage"
	"github.com/samarthumrao/BrandPulse-AI/internal/stream"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting BrandPulse AI")
	metrics.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.RequestTimeout).
		WithRateLimit(cfg.GeminiRateLimit)
	if !provider.IsEnabled() {
		logrus.Warn("GEMINI_API_KEY is not set, every analysis will return the fallback result")
	}

	resultCache := newCache(cfg)
	defer resultCache.Close()

	storageClient, err := newStorage(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	notificationService := notifications.NewService(cfg)

	auditService := audit.NewService(cfg, provider, resultCache, storageClient, notificationService)

	sessionStore := session.NewStore(auditService, cfg.LogDelayScale)

	hub := stream.NewHub(sessionStore.Snapshot)
	go hub.Run(ctx)

	events, unsubscribe := sessionStore.Subscribe()
	defer unsubscribe()
	go hub.Forward(ctx, events)

	schedulerService := scheduler.NewService(cfg, auditService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	router := api.NewRouter(sessionStore, auditService, hub)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// newCache prefers Valkey and falls back to an in-process cache
func newCache(cfg *config.Config) cache.Cache {
	if cfg.ValkeyAddress == "" {
		logrus.Info("VALKEY_ADDRESS not set, using in-memory result cache")
		return cache.NewMemoryCache()
	}

	valkeyCache, err := cache.NewValkeyCache(cfg.ValkeyAddress, cfg.ValkeyPassword)
	if err != nil {
		logrus.Warnf("Valkey unavailable, using in-memory result cache: %v", err)
		return cache.NewMemoryCache()
	}
	return valkeyCache
}

// newStorage archives to Azure Blob when an account is configured, otherwise to disk
func newStorage(ctx context.Context, cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount == "" {
		logrus.Infof("AZURE_STORAGE_ACCOUNT not set, archiving audits under %s", cfg.LocalStorageDir)
		return storage.NewLocalStorage(cfg.LocalStorageDir)
	}
	return storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
}
