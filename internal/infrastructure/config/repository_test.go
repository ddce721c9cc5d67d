package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizard.dev/pluginsdk/pkg/plugin"
)

const testPluginUUID = "6ba7b810-9dad-41d1-80b4-00c04fd430c8"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pluginsdk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCompositeRepository_DefaultsWithoutSources(t *testing.T) {
	repo := &CompositeRepository{validator: NewValidator()}

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestCompositeRepository_LayersInPriorityOrder(t *testing.T) {
	path := writeConfig(t, `
plugin:
  uuid: `+testPluginUUID+`
  name: From File
  version: 1.0.0
  description: file description
output: manifest.js
logLevel: warn
watchDebounce: 1s
`)
	t.Setenv("PLUGINSDK_PLUGIN_NAME", "From Env")
	t.Setenv("PLUGINSDK_LOG_LEVEL", "debug")
	t.Setenv("PLUGINSDK_DEBUG", "true")

	repo := NewCompositeRepository(path)
	repo.AddSource(NewFlagSource(&Configuration{Plugin: plugin.Metadata{Version: "2.0.0"}}))

	cfg, err := repo.Load()
	require.NoError(t, err)

	assert.Equal(t, testPluginUUID, cfg.Plugin.UUID)
	assert.Equal(t, "From Env", cfg.Plugin.Name)
	assert.Equal(t, "2.0.0", cfg.Plugin.Version)
	assert.Equal(t, "file description", cfg.Plugin.Description)
	assert.Equal(t, "manifest.js", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
	assert.True(t, cfg.Debug)
}

func TestCompositeRepository_MissingFileIsIgnored(t *testing.T) {
	repo := NewCompositeRepository(filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "-", cfg.Output)
}

func TestCompositeRepository_ConfigPathFromEnvironment(t *testing.T) {
	path := writeConfig(t, "output: from-env-file.js\n")
	t.Setenv("PLUGINSDK_CONFIG", path)

	repo := NewCompositeRepository("")
	assert.Equal(t, path, repo.Path())

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env-file.js", cfg.Output)
}

func TestCompositeRepository_DefaultPath(t *testing.T) {
	t.Setenv("PLUGINSDK_CONFIG", "")
	assert.Equal(t, DefaultConfigFile, NewCompositeRepository("").Path())
}

func TestCompositeRepository_Errors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		env    map[string]string
		errMsg string
	}{
		{name: "malformed_yaml", file: "plugin: [", errMsg: "failed to parse config file"},
		{name: "invalid_uuid", file: "plugin:\n  uuid: nope\n", errMsg: "invalid plugin uuid"},
		{name: "invalid_debug", env: map[string]string{"PLUGINSDK_DEBUG": "maybe"}, errMsg: "PLUGINSDK_DEBUG"},
		{name: "invalid_debounce", env: map[string]string{"PLUGINSDK_WATCH_DEBOUNCE": "soon"}, errMsg: "PLUGINSDK_WATCH_DEBOUNCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.file)

			_, err := NewCompositeRepository(path).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMerge_DebugIsSticky(t *testing.T) {
	base := Default()
	base.Debug = true

	merged := merge(base, &Configuration{})
	assert.True(t, merged.Debug)
	assert.False(t, Default().Debug)
}
