package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"visiostar-nodes/backend/internal/adapter"
	"visiostar-nodes/backend/internal/api"
	"visiostar-nodes/backend/internal/composer"
	"visiostar-nodes/backend/internal/metrics"
	"visiostar-nodes/backend/pkg/config"
	"visiostar-nodes/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	// Initialize dependencies
	llmAdapter := adapter.NewLLMAdapter(providersFromConfig(cfg), cfg.RequestTimeout)
	comp := composer.NewComposer(llmAdapter,
		composer.WithRecorder(metrics.New(prometheus.DefaultRegisterer)),
		composer.WithConcurrency(cfg.BatchConcurrency),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Composer: comp,
		Defaults: defaultRequest(cfg),
		Metrics:  promhttp.Handler(),
		Logger:   log,
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("default_provider", cfg.DefaultProvider),
		zap.String("default_model", cfg.DefaultModel),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// In-flight compose calls can take as long as one provider round trip
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func providersFromConfig(cfg *config.Config) adapter.Providers {
	return adapter.Providers{
		DeepSeek:    adapter.ProviderConfig{BaseURL: cfg.DeepSeekBaseURL, APIKey: cfg.DeepSeekAPIKey},
		SiliconFlow: adapter.ProviderConfig{BaseURL: cfg.SiliconFlowBaseURL, APIKey: cfg.SiliconFlowAPIKey},
	}
}

// defaultRequest applies the configured provider and model to the node defaults
func defaultRequest(cfg *config.Config) composer.Request {
	req := composer.DefaultRequest()
	req.Provider = cfg.DefaultProvider
	req.Model = cfg.DefaultModel
	return req
}
