// Package health tracks whether the service's backing stores are reachable and
// publishes the result to the gRPC health service and the readiness probe.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultInterval is how often Run re-checks dependencies.
const DefaultInterval = 15 * time.Second

const pingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Checker pings named dependencies. With no dependencies it is always ready.
type Checker struct {
	mu       sync.Mutex
	pingers  map[string]Pinger
	ready    atomic.Bool
	grpc     *health.Server
	services []string
	logger   *zap.Logger
}

// NewChecker returns a Checker that starts out not ready until the first Check.
// grpcHealth may be nil; services are the gRPC service names whose status follows readiness.
func NewChecker(grpcHealth *health.Server, logger *zap.Logger, services ...string) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		pingers:  make(map[string]Pinger),
		grpc:     grpcHealth,
		services: append([]string{""}, services...),
		logger:   logger,
	}
}

// Add registers a dependency under name.
func (c *Checker) Add(name string, p Pinger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pingers[name] = p
}

// Ready reports the result of the last Check.
func (c *Checker) Ready() bool { return c.ready.Load() }

// Check pings every dependency and returns the failures keyed by name.
func (c *Checker) Check(ctx context.Context) map[string]error {
	c.mu.Lock()
	pingers := make(map[string]Pinger, len(c.pingers))
	for k, v := range c.pingers {
		pingers[k] = v
	}
	c.mu.Unlock()

	failures := make(map[string]error)
	for name, p := range pingers {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			failures[name] = err
			c.logger.Warn("health: dependency unreachable", zap.String("dependency", name), zap.Error(err))
		}
	}
	c.set(len(failures) == 0)
	return failures
}

func (c *Checker) set(ready bool) {
	c.ready.Store(ready)
	if c.grpc == nil {
		return
	}
	status := healthpb.HealthCheckResponse_SERVING
	if !ready {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	for _, svc := range c.services {
		c.grpc.SetServingStatus(svc, status)
	}
}

// Run checks immediately and then every interval until ctx is done.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
