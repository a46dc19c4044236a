package config

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Breaker names used across the service.
const (
	BreakerRedis         = "Redis-Sessions"
	BreakerPostgres      = "PostgreSQL"
	BreakerRelayPostgres = "Relay-PostgreSQL"
	BreakerRabbitMQ      = "RabbitMQ"
	BreakerRemoteStore   = "Remote-Store"
)

// StateObserver is told about every breaker state change.
type StateObserver func(name string, to gobreaker.State)

// NewCircuitBreaker creates a circuit breaker with standard settings: three
// consecutive failures open it.
func NewCircuitBreaker(name string, logger *zap.Logger, observers ...StateObserver) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}

	var timeout time.Duration
	switch name {
	case BreakerRedis, BreakerRemoteStore:
		timeout = 5 * time.Second
	case BreakerPostgres, BreakerRelayPostgres:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			for _, observe := range observers {
				observe(name, to)
			}
		},
	})
}
