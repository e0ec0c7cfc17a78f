package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	shutdownDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shutdown_duration_seconds",
		Help:    "Total time taken to shutdown gracefully",
		Buckets: []float64{1, 5, 10, 15, 20, 25, 30},
	})

	shutdownErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shutdown_errors_total",
		Help: "Total number of shutdown errors by component",
	}, []string{"component"})
)

// ShutdownFunc represents a function that shuts down a component
type ShutdownFunc func(context.Context) error

// Component represents a registered shutdown component
type Component struct {
	Name         string
	ShutdownFunc ShutdownFunc
}

// Manager coordinates graceful shutdown of all service components.
// Components shut down in REVERSE registration order (LIFO) so dependents go
// first (HTTP servers before the database).
type Manager struct {
	logger     *zap.Logger
	components []Component
	mu         sync.Mutex
	timeout    time.Duration
}

// NewManager creates a new shutdown manager
func NewManager(logger *zap.Logger, timeout time.Duration) *Manager {
	return &Manager{
		logger:     logger,
		components: make([]Component, 0),
		timeout:    timeout,
	}
}

// Register adds a shutdown function. Registration order matters: register the
// database first and servers last.
func (sm *Manager) Register(name string, fn ShutdownFunc) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.components = append(sm.components, Component{Name: name, ShutdownFunc: fn})

	sm.logger.Debug("registered shutdown component",
		zap.String("component", name),
		zap.Int("registration_order", len(sm.components)))
}

// WaitForShutdown blocks until SIGINT or SIGTERM, then shuts down all
// registered components
func (sm *Manager) WaitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	sm.logger.Info("received shutdown signal",
		zap.String("signal", sig.String()),
		zap.Duration("timeout", sm.timeout))

	sm.Shutdown()
}

// Shutdown runs all registered shutdown functions in LIFO order
func (sm *Manager) Shutdown() {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	sm.mu.Lock()
	components := make([]Component, len(sm.components))
	copy(components, sm.components)
	sm.mu.Unlock()

	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.ShutdownFunc(ctx); err != nil {
			shutdownErrors.WithLabelValues(c.Name).Inc()
			sm.logger.Error("component shutdown error",
				zap.String("component", c.Name),
				zap.Error(err))
			continue
		}
		sm.logger.Info("component shut down", zap.String("component", c.Name))
	}

	shutdownDuration.Observe(time.Since(start).Seconds())
	sm.logger.Info("graceful shutdown complete",
		zap.Duration("elapsed", time.Since(start)))
}
