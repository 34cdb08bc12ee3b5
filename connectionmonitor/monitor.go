package connectionmonitor

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultHealthCheckInterval is the interval between RPC health checks.
	DefaultHealthCheckInterval = 30 * time.Second
	// DefaultReconnectDelay is the pause between reconnection attempts.
	DefaultReconnectDelay = 5 * time.Second
	// DefaultMaxReconnectAttempts bounds reconnection attempts per failed check.
	DefaultMaxReconnectAttempts = 3
)

// ConnectionMonitor watches an RPC connection and redials it when a health check fails.
type ConnectionMonitor interface {
	// Start starts connection monitoring in a background goroutine.
	Start(ctx context.Context) error
	// Stop stops connection monitoring. It is safe to call more than once.
	Stop()
}

// RPCClient is the connection being monitored.
type RPCClient interface {
	// CheckConnection checks if connection is alive
	CheckConnection(ctx context.Context) error
	// Reconnect replaces the underlying connection
	Reconnect(ctx context.Context) error
}

// Config tunes the monitor. Zero values fall back to the defaults.
type Config struct {
	HealthCheckInterval  time.Duration
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
}

func (c Config) withDefaults() Config {
	if c.HealthCheckInterval <= 0 {
		c.HealthCheckInterval = DefaultHealthCheckInterval
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	return c
}

type connectionMonitor struct {
	client       RPCClient
	logger       *logrus.Logger
	name         string
	config       Config
	stopChan     chan struct{}
	isMonitoring bool
	monitorMutex sync.Mutex
}

// NewConnectionMonitor creates a new connection monitor instance.
//
// Parameters:
// - client: the RPC client to monitor.
// - logger: the logger for logging purposes.
// - name: the endpoint name used in log fields.
// - config: intervals and retry bounds.
//
// Returns:
// - ConnectionMonitor: the new connection monitor instance.
func NewConnectionMonitor(client RPCClient, logger *logrus.Logger, name string, config Config) ConnectionMonitor {
	return &connectionMonitor{
		client:   client,
		logger:   logger,
		name:     name,
		config:   config.withDefaults(),
		stopChan: make(chan struct{}),
	}
}

func (m *connectionMonitor) Start(ctx context.Context) error {
	m.monitorMutex.Lock()
	defer m.monitorMutex.Unlock()

	if m.isMonitoring {
		return errors.Errorf("connection monitor is already running for %s", m.name)
	}
	m.isMonitoring = true
	m.stopChan = make(chan struct{})

	go m.monitorConnection(ctx, m.stopChan)
	return nil
}

func (m *connectionMonitor) Stop() {
	m.monitorMutex.Lock()
	defer m.monitorMutex.Unlock()

	if !m.isMonitoring {
		return
	}

	close(m.stopChan)
	m.isMonitoring = false
}

func (m *connectionMonitor) monitorConnection(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(m.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.WithField("endpoint", m.name).Info("Connection monitoring stopped due to context cancellation")
			return

		case <-stop:
			m.logger.WithField("endpoint", m.name).Info("Connection monitoring stopped")
			return

		case <-ticker.C:
			if err := m.checkAndReconnect(ctx); err != nil {
				m.logger.WithFields(logrus.Fields{
					"endpoint": m.name,
					"error":    err,
				}).Error("Failed to check or reconnect")
			}
		}
	}
}

// checkAndReconnect pings the endpoint and redials it with bounded attempts on failure.
func (m *connectionMonitor) checkAndReconnect(ctx context.Context) error {
	err := m.client.CheckConnection(ctx)
	if err == nil {
		m.logger.WithField("endpoint", m.name).Debug("Ping successful")
		return nil
	}

	m.logger.WithFields(logrus.Fields{
		"endpoint": m.name,
		"error":    err,
	}).Warn("Connection check failed, attempting to reconnect")

	for attempt := 1; attempt <= m.config.MaxReconnectAttempts; attempt++ {
		err = m.client.Reconnect(ctx)
		if err == nil {
			m.logger.WithFields(logrus.Fields{
				"endpoint": m.name,
				"attempt":  attempt,
			}).Info("Client successfully reconnected")
			return nil
		}

		m.logger.WithFields(logrus.Fields{
			"endpoint": m.name,
			"attempt":  attempt,
			"error":    err,
		}).Error("Reconnection attempt failed")

		if attempt == m.config.MaxReconnectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.config.ReconnectDelay):
		}
	}

	return errors.Wrapf(err, "failed to reconnect to %s", m.name)
}
