// Package store picks the HostelStore backend once at startup.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/adapters/repository"
	"github.com/hostel-management/hostel-service/internal/adapters/store/memory"
	"github.com/hostel-management/hostel-service/internal/adapters/store/remote"
	"github.com/hostel-management/hostel-service/internal/adapters/store/sqlite"
	"github.com/hostel-management/hostel-service/internal/config"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// Deps are the collaborators a backend may need. All are optional.
type Deps struct {
	Logger *zap.Logger
	// Publisher receives notifications from the memory and sqlite backends.
	// The postgres backend hands them to the outbox relay instead.
	Publisher      ports.NotificationPublisher
	PostgresCB     *gobreaker.CircuitBreaker
	RemoteCB       *gobreaker.CircuitBreaker
	RemoteObserver func(operation string, err error)
	HTTPClient     *http.Client
}

// Opened is the selected backend and the function that releases it.
type Opened struct {
	Store ports.HostelStore
	Close func() error
}

func noop() error { return nil }

// Open builds the backend named by cfg.Backend. An unreachable remote backend
// falls back to an in-memory store.
func Open(ctx context.Context, cfg config.StoreConfig, deps Deps) (*Opened, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	switch cfg.Backend {
	case config.BackendMemory, "":
		return openMemory(cfg, deps, log), nil

	case config.BackendSQLite:
		s, err := sqlite.NewStore(ctx, cfg.SQLitePath, memoryOptions(cfg, deps, log)...)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if cfg.SeedDemoUsers && s.SeedDemoUsers() > 0 {
			if err := s.Persist(ctx); err != nil {
				_ = s.Close()
				return nil, fmt.Errorf("persist demo users: %w", err)
			}
		}
		log.Info("store ready", zap.String("backend", s.Backend()), zap.String("path", s.Path()))
		return &Opened{Store: s, Close: s.Close}, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repo := repository.NewSQLRepository(db,
			repository.WithMonthlyFee(cfg.MonthlyFee),
			repository.WithNotificationLimit(cfg.NotificationLimit),
			repository.WithBreaker(deps.PostgresCB),
		)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		if cfg.SeedDemoUsers {
			added, err := repo.SeedDemoUsers(ctx, memory.DemoUsers)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info("demo users seeded", zap.Int("added", added))
		}
		log.Info("store ready", zap.String("backend", repo.Backend()))
		return &Opened{Store: repo, Close: db.Close}, nil

	case config.BackendRemote:
		opts := []remote.Option{
			remote.WithTimeout(cfg.RemoteTimeout),
			remote.WithLogger(log),
		}
		if deps.RemoteCB != nil {
			opts = append(opts, remote.WithBreaker(deps.RemoteCB))
		}
		if deps.RemoteObserver != nil {
			opts = append(opts, remote.WithObserver(deps.RemoteObserver))
		}
		if deps.HTTPClient != nil {
			opts = append(opts, remote.WithHTTPClient(deps.HTTPClient))
		}
		client := remote.New(cfg.RemoteURL, opts...)
		if err := client.Ping(ctx); err != nil {
			log.Warn("remote store unreachable, falling back to memory",
				zap.String("url", cfg.RemoteURL),
				zap.Error(err),
			)
			return openMemory(cfg, deps, log), nil
		}
		log.Info("store ready", zap.String("backend", client.Backend()), zap.String("url", cfg.RemoteURL))
		return &Opened{Store: client, Close: noop}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func openMemory(cfg config.StoreConfig, deps Deps, log *zap.Logger) *Opened {
	s := memory.New(memoryOptions(cfg, deps, log)...)
	if cfg.SeedDemoUsers {
		s.SeedDemoUsers()
	}
	log.Info("store ready", zap.String("backend", s.Backend()), zap.Duration("latency", cfg.Latency))
	return &Opened{Store: s, Close: noop}
}

func memoryOptions(cfg config.StoreConfig, deps Deps, log *zap.Logger) []memory.Option {
	opts := []memory.Option{
		memory.WithLatency(cfg.Latency),
		memory.WithLogger(log),
		memory.WithNotificationLimit(cfg.NotificationLimit),
	}
	if cfg.MonthlyFee > 0 {
		opts = append(opts, memory.WithMonthlyFee(cfg.MonthlyFee))
	}
	if deps.Publisher != nil {
		opts = append(opts, memory.WithPublisher(deps.Publisher))
	}
	return opts
}
