package lambda

import (
	"os"
	"os/signal"
	"sync"

	"itinerary-api/internal/config"
	"itinerary-api/pkg/server"

	"github.com/sirupsen/logrus"
)

// ConnectionManager keeps one service container alive across warm Lambda invocations
type ConnectionManager struct {
	container  *server.Container
	components server.Component
	mu         sync.Mutex
	loadConfig func() (*config.Config, error)
}

// NewConnectionManager creates a connection manager that builds the given components
func NewConnectionManager(components server.Component) *ConnectionManager {
	return &ConnectionManager{
		components: components,
		loadConfig: config.GetOptimizedConfig,
	}
}

// GetContainer returns the service container, initializing it on first use.
// A failed initialization is retried on the next call.
func (cm *ConnectionManager) GetContainer() (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		return cm.container, nil
	}

	cfg, err := cm.loadConfig()
	if err != nil {
		return nil, err
	}

	container, err := server.NewContainer(cfg, cm.components)
	if err != nil {
		return nil, err
	}

	container.Logger.WithFields(config.GetServerlessConfig().LogFields()).Info("Service container initialized")

	cm.container = container
	return container, nil
}

// Cleanup releases the container's resources
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}
	err := cm.container.Close()
	cm.container = nil
	return err
}

// CleanupOnSignal runs Cleanup once when one of signals arrives.
// The returned function stops listening.
func (cm *ConnectionManager) CleanupOnSignal(logger *logrus.Logger, signals ...os.Signal) func() {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, signals...)

	go func() {
		select {
		case sig := <-ch:
			logger.WithField("signal", sig.String()).Info("Shutting down, releasing connections")
			if err := cm.Cleanup(); err != nil {
				logger.WithError(err).Error("Failed to release connections")
			}
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
