package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wizard.dev/pluginsdk/internal/infrastructure/config"
	"wizard.dev/pluginsdk/pkg/plugin"
)

// NewManifestCommand creates the manifest command
func NewManifestCommand(container *CLIContainer) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Write the plugin manifest script",
		Long: `Write the script module the host loads to identify the plugin.

The plugin identity comes from the configuration file, PLUGINSDK_* environment
variables or the flags below. With --watch the manifest is rewritten whenever the
configuration file changes.`,
		Example: `  pluginsdk manifest --name "My Plugin" --uuid 0b6f... --plugin-version 1.0.0
  pluginsdk manifest -o dist/plugin.js --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeManifest(cmd, container); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			watcher := config.NewWatcher(container.ConfigPath,
				config.WithWatchDebounce(container.Config.WatchDebounce),
				config.WithWatchLogger(container.logger()))
			return watcher.Run(cmd.Context(), func() error {
				if container.MainContainer != nil {
					if err := container.MainContainer.Reload(); err != nil {
						return err
					}
				}
				return writeManifest(cmd, container)
			})
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rewrite the manifest when the configuration file changes")
	cmd.Flags().Duration("debounce", 0, "Quiet period before a configuration change is applied")
	cmd.Flags().String("uuid", "", "Plugin UUID")
	cmd.Flags().String("name", "", "Plugin name")
	cmd.Flags().String("plugin-version", "", "Plugin version")
	cmd.Flags().String("description", "", "Plugin description")

	return cmd
}

func writeManifest(cmd *cobra.Command, container *CLIContainer) error {
	cfg := container.Config
	if err := container.validator().ValidateMetadata(cfg.Plugin); err != nil {
		return err
	}

	if cfg.Output == "" || cfg.Output == "-" {
		return plugin.WriteManifestScript(cmd.OutOrStdout(), cfg.Plugin)
	}

	var buf bytes.Buffer
	if err := plugin.WriteManifestScript(&buf, cfg.Plugin); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	container.logger().Info("Manifest written",
		zap.String("path", cfg.Output),
		zap.String("plugin", cfg.Plugin.Name),
		zap.String("version", cfg.Plugin.Version))
	return nil
}
