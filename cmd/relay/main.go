package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/adapters/messaging"
	"github.com/hostel-management/hostel-service/internal/adapters/outbox"
	"github.com/hostel-management/hostel-service/internal/adapters/repository"
	"github.com/hostel-management/hostel-service/internal/config"
	"github.com/hostel-management/hostel-service/internal/logger"
)

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load relay configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("outbox-relay", cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting outbox relay")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	log.Info("database connection initialized, circuit breaker will validate on first operation")

	broker, err := messaging.NewRabbitMQBroker(
		cfg.RabbitMQURL,
		cfg.NotificationQueue,
		config.NewCircuitBreaker(config.BreakerRabbitMQ, log),
		log,
	)
	if err != nil {
		log.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer broker.Close()
	log.Info("connected to rabbitmq", zap.String("queue", broker.QueueName()))

	relayWorker := outbox.NewRelay(
		db,
		cfg.DatabaseURL,
		repository.NotificationEventType,
		broker,
		config.NewCircuitBreaker(config.BreakerRelayPostgres, log),
		log,
	)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", probe(relayWorker.IsHealthy))
	healthMux.HandleFunc("/health/live", probe(relayWorker.IsHealthy))
	healthMux.HandleFunc("/health/ready", probe(relayWorker.IsReady))

	healthServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting health check server", zap.String("addr", cfg.HealthAddr))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server error", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting event processing worker")
		if err := relayWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("received signal, initiating shutdown", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("relay worker failed, shutting down", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down health server", zap.Error(err))
	}

	log.Info("shutdown complete")
}

func probe(check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK
		if !check() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "outbox-relay",
		})
	}
}
