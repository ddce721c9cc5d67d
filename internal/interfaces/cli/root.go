package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wizard.dev/pluginsdk/internal/infrastructure/config"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Reconfigurer rebuilds the shared components after the configuration inputs
// change. It is implemented by the dependency injection container.
type Reconfigurer interface {
	ApplyOverrides(configPath string, overrides *config.Configuration) error
	Reload() error
}

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Config     *config.Configuration
	ConfigPath string
	Validator  *config.Validator
	Logger     *zap.Logger
	// MainContainer is nil when the commands run without a container, as in
	// tests that build the CLIContainer by hand.
	MainContainer Reconfigurer
}

func (c *CLIContainer) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *CLIContainer) validator() *config.Validator {
	if c.Validator == nil {
		return config.NewValidator()
	}
	return c.Validator
}

// NewRootCommand returns the pluginsdk command tree.
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "pluginsdk",
		Short: "Developer tools for plugin element bundles",
		Long: `pluginsdk builds and checks the artifacts a plugin bundle ships to the host
application: the manifest script, the connector table and the JSON payloads the
host writes into element attributes.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigurationOverrides(cmd, container); err != nil {
				return fmt.Errorf("failed to apply configuration overrides: %w", err)
			}
			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $PLUGINSDK_CONFIG or ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(NewManifestCommand(container))
	rootCmd.AddCommand(NewDecodeCommand(container))
	rootCmd.AddCommand(NewInspectCommand(container))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyConfigurationOverrides rebuilds the container from explicitly set flags.
// Flags left at their defaults never override file or environment values.
func applyConfigurationOverrides(cmd *cobra.Command, container *CLIContainer) error {
	overrides, changed := collectOverrides(cmd)
	configPath, _ := cmd.Flags().GetString("config")
	if !changed && configPath == "" {
		return nil
	}
	if container.MainContainer == nil {
		return nil
	}
	return container.MainContainer.ApplyOverrides(configPath, overrides)
}

func collectOverrides(cmd *cobra.Command) (*config.Configuration, bool) {
	overrides := &config.Configuration{}
	changed := false
	flags := cmd.Flags()

	str := func(name string, target *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*target = f.Value.String()
			changed = true
		}
	}
	str("log-level", &overrides.LogLevel)
	str("output", &overrides.Output)
	str("uuid", &overrides.Plugin.UUID)
	str("name", &overrides.Plugin.Name)
	str("plugin-version", &overrides.Plugin.Version)
	str("description", &overrides.Plugin.Description)

	if f := flags.Lookup("debug"); f != nil && f.Changed {
		overrides.Debug, _ = flags.GetBool("debug")
		changed = true
	}
	if f := flags.Lookup("debounce"); f != nil && f.Changed {
		overrides.WatchDebounce, _ = flags.GetDuration("debounce")
		changed = true
	}
	return overrides, changed
}

// Execute runs the command tree and exits the process on failure.
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
