package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/adapters/blob"
	"github.com/hostel-management/hostel-service/internal/adapters/handler"
	"github.com/hostel-management/hostel-service/internal/adapters/messaging"
	"github.com/hostel-management/hostel-service/internal/adapters/metrics"
	"github.com/hostel-management/hostel-service/internal/adapters/session"
	"github.com/hostel-management/hostel-service/internal/adapters/store"
	"github.com/hostel-management/hostel-service/internal/config"
	"github.com/hostel-management/hostel-service/internal/core/ports"
	"github.com/hostel-management/hostel-service/internal/core/services"
	"github.com/hostel-management/hostel-service/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("hostel-service", cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if cfg.Auth.EphemeralKeys {
		log.Warn("no signing keys found, using a generated key pair; tokens will not survive a restart")
	}

	ctx := context.Background()
	m := metrics.New("hostel")

	var sessions ports.SessionStore
	var sessionPinger handler.Pinger
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.String("address", cfg.Redis.Address), zap.Error(err))
		}
		log.Info("connected to redis", zap.String("address", cfg.Redis.Address))

		rs := session.NewRedisStore(redisClient, config.NewCircuitBreaker(config.BreakerRedis, log, m.SetBreakerState))
		sessions, sessionPinger = rs, rs
	} else {
		log.Info("REDIS_ADDRESS not set, tokens cannot be revoked before they expire")
	}

	// The postgres backend publishes through the outbox relay instead.
	var publisher ports.NotificationPublisher
	if cfg.Messaging.RabbitMQURL != "" && cfg.Store.Backend != config.BackendPostgres {
		broker, err := messaging.NewRabbitMQBroker(
			cfg.Messaging.RabbitMQURL,
			cfg.Messaging.NotificationQueue,
			config.NewCircuitBreaker(config.BreakerRabbitMQ, log, m.SetBreakerState),
			log,
		)
		if err != nil {
			log.Warn("failed to connect to rabbitmq, notifications stay local", zap.Error(err))
		} else {
			defer broker.Close()
			broker.SetObserver(m.RecordNotification)
			publisher = broker
			log.Info("connected to rabbitmq", zap.String("queue", broker.QueueName()))
		}
	}

	opened, err := store.Open(ctx, cfg.Store, store.Deps{
		Logger:         log,
		Publisher:      publisher,
		PostgresCB:     config.NewCircuitBreaker(config.BreakerPostgres, log, m.SetBreakerState),
		RemoteCB:       config.NewCircuitBreaker(config.BreakerRemoteStore, log, m.SetBreakerState),
		RemoteObserver: m.RecordRemoteCall,
	})
	if err != nil {
		log.Fatal("failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer func() {
		if err := opened.Close(); err != nil {
			log.Warn("failed to close store", zap.Error(err))
		}
	}()
	hostelStore := opened.Store

	var blobs ports.BlobStore
	switch cfg.Blob.Driver {
	case blob.DriverS3:
		s3Store, err := blob.NewS3Store(ctx, blob.S3Config{
			Region:    cfg.Blob.S3Region,
			Bucket:    cfg.Blob.S3Bucket,
			Endpoint:  cfg.Blob.S3Endpoint,
			PathStyle: cfg.Blob.S3PathStyle,
		})
		if err != nil {
			log.Fatal("failed to configure s3 avatar storage", zap.Error(err))
		}
		blobs = s3Store
	default:
		blobs = blob.NewMemoryStore()
	}
	log.Info("avatar storage ready", zap.String("driver", blobs.Driver()))

	authService := services.NewAuthService(hostelStore, sessions, cfg.Auth.PrivateKey, cfg.Auth.TokenTTL, log)
	registrationService := services.NewRegistrationService(hostelStore, log)
	avatarService := services.NewAvatarService(hostelStore, blobs, log)

	router := handler.NewRouter(handler.RouterConfig{
		Store:          hostelStore,
		Auth:           authService,
		Registration:   registrationService,
		Avatars:        avatarService,
		Health:         handler.NewHealthHandler(hostelStore, sessionPinger),
		Observer:       m,
		MetricsHandler: m.Handler(),
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("backend", hostelStore.Backend()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("server error, shutting down", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}
