package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fiadopay/gateway/internal/application/services"
	"github.com/fiadopay/gateway/internal/config"
	"github.com/fiadopay/gateway/internal/fraud"
	"github.com/fiadopay/gateway/internal/infrastructure/persistence/postgres"
	"github.com/fiadopay/gateway/internal/interfaces/rest/handlers"
	"github.com/fiadopay/gateway/internal/interfaces/rest/middleware"
	"github.com/fiadopay/gateway/internal/pricing"
	"github.com/fiadopay/gateway/internal/webhook"
	"github.com/fiadopay/gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting gateway service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	paymentRepo := postgres.NewPaymentRepository(db)
	deliveryRepo := postgres.NewDeliveryRepository(db)
	merchantRepo := postgres.NewMerchantRepository(db)

	pool := worker.NewPool(cfg.Pool.Workers, cfg.Pool.QueueSize, logger)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	pool.Start(workerCtx)

	dispatcher := webhook.NewDispatcher(merchantRepo, deliveryRepo, pool, cfg.Webhook, logger)

	paymentService := services.NewPaymentService(
		paymentRepo,
		pricing.NewRegistry(),
		fraud.NewSimulator(cfg.Settlement.DeclineRate),
		dispatcher,
		pool,
		cfg.Settlement,
		logger,
	)

	mux := http.NewServeMux()
	handlers.NewPaymentHandler(paymentService, logger).Register(mux)

	router := middleware.Auth(merchantRepo, logger)(mux)

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	cancelWorkers()
	pool.Stop()

	logger.Info("server exited")
}
