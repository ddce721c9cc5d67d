// Package di wires the developer CLI: configuration, logging and the command
// dependencies.
package di

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"

	"wizard.dev/pluginsdk/internal/infrastructure/config"
	"wizard.dev/pluginsdk/internal/interfaces/cli"
	"wizard.dev/pluginsdk/internal/logging"
)

// Options are the configuration inputs known before the container is built.
type Options struct {
	// ConfigPath overrides the configuration file location.
	ConfigPath string
	// Overrides hold flag values; zero fields do not override.
	Overrides *config.Configuration
}

// Container holds all application dependencies
type Container struct {
	ConfigRepo   *config.CompositeRepository
	Config       *config.Configuration
	Validator    *config.Validator
	Logger       *zap.Logger
	CLIContainer *cli.CLIContainer

	opts Options
}

// NewContainer creates a container from the default configuration sources.
func NewContainer() (*Container, error) {
	return NewContainerWithOptions(Options{})
}

// NewContainerWithOptions creates a container for opts.
func NewContainerWithOptions(opts Options) (*Container, error) {
	container := &Container{opts: opts}

	if err := container.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return container, nil
}

// initializeComponents loads the configuration and rebuilds every component
// that depends on it. The CLI container is updated in place so commands that
// already hold it see the new values.
func (c *Container) initializeComponents() error {
	repo := config.NewCompositeRepository(c.opts.ConfigPath)
	if c.opts.Overrides != nil {
		repo.AddSource(config.NewFlagSource(c.opts.Overrides))
	}

	cfg, err := repo.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{Debug: cfg.Debug, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}

	c.ConfigRepo = repo
	c.Config = cfg
	c.Validator = config.NewValidator()
	c.Logger = logger

	if c.CLIContainer == nil {
		c.CLIContainer = &cli.CLIContainer{MainContainer: c}
	}
	c.CLIContainer.Config = cfg
	c.CLIContainer.ConfigPath = repo.Path()
	c.CLIContainer.Validator = c.Validator
	c.CLIContainer.Logger = logger

	logger.Debug("Dependency injection container initialized",
		zap.String("config", repo.Path()),
		zap.String("plugin", cfg.Plugin.Name),
		zap.String("output", cfg.Output))
	return nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// ApplyOverrides rebuilds the components with flag overrides and, when
// configPath is set, a different configuration file. On failure the previous
// components stay in place.
func (c *Container) ApplyOverrides(configPath string, overrides *config.Configuration) error {
	previous := c.opts
	if configPath == "" {
		configPath = previous.ConfigPath
	}
	c.opts = Options{ConfigPath: configPath, Overrides: overrides}
	if err := c.initializeComponents(); err != nil {
		c.opts = previous
		return err
	}
	return nil
}

// Reload re-reads every configuration source.
func (c *Container) Reload() error {
	return c.initializeComponents()
}

// Shutdown flushes buffered log entries.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Logger == nil {
		return nil
	}
	c.Logger.Debug("Shutting down")
	if err := c.Logger.Sync(); err != nil && !isStderrSyncError(err) {
		return fmt.Errorf("failed to flush logs: %w", err)
	}
	return nil
}

// HealthCheck verifies that the configuration still loads and that the plugin
// identity is complete enough to emit a manifest.
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.ConfigRepo == nil {
		return fmt.Errorf("configuration repository not initialized")
	}

	cfg, err := c.ConfigRepo.Load()
	if err != nil {
		return fmt.Errorf("configuration load failed: %w", err)
	}

	if err := c.Validator.ValidateMetadata(cfg.Plugin); err != nil {
		return fmt.Errorf("plugin metadata: %w", err)
	}

	c.Logger.Debug("Health check passed")
	return nil
}

// GetVersion returns version information
func (c *Container) GetVersion() map[string]string {
	return map[string]string{
		"version":    cli.Version,
		"build_time": cli.BuildTime,
	}
}

// Syncing stderr fails with EINVAL or ENOTTY when it is a terminal or pipe.
func isStderrSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
