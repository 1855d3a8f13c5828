// Package app provides a dependency injection container for assembling
// the CLI's components.
package app

import (
	"log/slog"
	"os"
	"sync"

	"github.com/go-pman/pman/internal/config"
	"github.com/go-pman/pman/internal/database"
	pmanservice "github.com/go-pman/pman/internal/pman/service"
)

// Container holds the CLI's dependencies and provides methods to access
// them. Each component is created on first access and cached behind a
// sync.Once.
type Container struct {
	config *config.Config

	logger *slog.Logger

	locks     *database.LockManager
	locksInit sync.Once

	registry     *pmanservice.Registry
	registryInit sync.Once

	loggerInit sync.Once
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the CLI configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance, built on first access
// from the configured log level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Locks returns the file-level lock manager every facade call through the
// CLI serializes on.
func (c *Container) Locks() *database.LockManager {
	c.locksInit.Do(func() {
		c.locks = database.NewLockManager(c.config.LockTimeout)
	})
	return c.locks
}

// Registry returns the container's own table of open databases, built with
// NewRegistry on first call (not the package-level DefaultRegistry). The
// pman commands do not register the databases they open.
func (c *Container) Registry() *pmanservice.Registry {
	c.registryInit.Do(func() {
		c.registry = pmanservice.NewRegistry()
	})
	return c.registry
}

// initLogger creates and configures a structured logger based on the log
// level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
