// Package config loads the developer CLI configuration from layered sources:
// built-in defaults, a YAML file, PLUGINSDK_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"wizard.dev/pluginsdk/pkg/plugin"
)

// DefaultConfigFile is looked up in the working directory when no file is
// configured explicitly.
const DefaultConfigFile = "pluginsdk.yaml"

// Configuration is the resolved CLI configuration.
type Configuration struct {
	Plugin        plugin.Metadata `yaml:"plugin"`
	Output        string          `yaml:"output"`
	Debug         bool            `yaml:"debug"`
	LogLevel      string          `yaml:"logLevel"`
	WatchDebounce time.Duration   `yaml:"watchDebounce"`
}

// Source provides a partial configuration. Fields left at their zero value do
// not override lower-priority sources.
type Source interface {
	Load() (*Configuration, error)
	// Priority orders sources; higher values win.
	Priority() int
	Name() string
}

// CompositeRepository merges every registered source over the defaults.
type CompositeRepository struct {
	path      string
	sources   []Source
	validator *Validator
}

// NewCompositeRepository returns a repository reading the YAML file at path
// (or the PLUGINSDK_CONFIG file, or DefaultConfigFile) and the environment.
func NewCompositeRepository(path string) *CompositeRepository {
	if path == "" {
		path = os.Getenv("PLUGINSDK_CONFIG")
	}
	if path == "" {
		path = DefaultConfigFile
	}

	repo := &CompositeRepository{path: path, validator: NewValidator()}
	repo.AddSource(NewFileSource(path))
	repo.AddSource(NewEnvironmentSource())
	return repo
}

// Path returns the YAML file the repository reads.
func (r *CompositeRepository) Path() string {
	return r.path
}

// AddSource registers an additional source.
func (r *CompositeRepository) AddSource(source Source) {
	r.sources = append(r.sources, source)
}

// Load merges all sources and validates the result.
func (r *CompositeRepository) Load() (*Configuration, error) {
	cfg := Default()

	sorted := make([]Source, len(r.sources))
	copy(sorted, r.sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	for _, source := range sorted {
		partial, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s configuration: %w", source.Name(), err)
		}
		cfg = merge(cfg, partial)
	}

	if err := r.validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return &Configuration{
		Output:        "-",
		LogLevel:      "info",
		WatchDebounce: 200 * time.Millisecond,
	}
}

func merge(target, source *Configuration) *Configuration {
	if source == nil {
		return target
	}
	result := *target

	if source.Plugin.UUID != "" {
		result.Plugin.UUID = source.Plugin.UUID
	}
	if source.Plugin.Name != "" {
		result.Plugin.Name = source.Plugin.Name
	}
	if source.Plugin.Version != "" {
		result.Plugin.Version = source.Plugin.Version
	}
	if source.Plugin.Description != "" {
		result.Plugin.Description = source.Plugin.Description
	}
	if source.Output != "" {
		result.Output = source.Output
	}
	if source.LogLevel != "" {
		result.LogLevel = source.LogLevel
	}
	if source.WatchDebounce != 0 {
		result.WatchDebounce = source.WatchDebounce
	}
	// Debug can only be switched on by a higher layer.
	result.Debug = result.Debug || source.Debug

	return &result
}

// FileSource reads a YAML configuration file. A missing file yields no values.
type FileSource struct {
	path string
}

// NewFileSource returns a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Load() (*Configuration, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Configuration
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", f.path, err)
	}
	return &cfg, nil
}

func (f *FileSource) Priority() int { return 10 }

func (f *FileSource) Name() string { return "file" }

// Path returns the file the source reads.
func (f *FileSource) Path() string { return f.path }

// EnvironmentSource reads PLUGINSDK_* variables.
type EnvironmentSource struct {
	lookup func(string) (string, bool)
}

// NewEnvironmentSource returns a source reading the process environment.
func NewEnvironmentSource() *EnvironmentSource {
	return &EnvironmentSource{lookup: os.LookupEnv}
}

func (e *EnvironmentSource) Load() (*Configuration, error) {
	cfg := &Configuration{}
	get := func(key string) string {
		v, _ := e.lookup("PLUGINSDK_" + key)
		return strings.TrimSpace(v)
	}

	cfg.Plugin.UUID = get("PLUGIN_UUID")
	cfg.Plugin.Name = get("PLUGIN_NAME")
	cfg.Plugin.Version = get("PLUGIN_VERSION")
	cfg.Plugin.Description = get("PLUGIN_DESCRIPTION")
	cfg.Output = get("OUTPUT")
	cfg.LogLevel = get("LOG_LEVEL")

	if v := get("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PLUGINSDK_DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}
	if v := get("WATCH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PLUGINSDK_WATCH_DEBOUNCE %q: %w", v, err)
		}
		cfg.WatchDebounce = d
	}
	return cfg, nil
}

func (e *EnvironmentSource) Priority() int { return 20 }

func (e *EnvironmentSource) Name() string { return "environment" }

// StaticSource serves a fixed configuration, typically built from flags.
type StaticSource struct {
	name     string
	priority int
	cfg      *Configuration
}

// NewFlagSource returns the highest-priority source for values set on the
// command line.
func NewFlagSource(cfg *Configuration) *StaticSource {
	return &StaticSource{name: "flags", priority: 30, cfg: cfg}
}

func (s *StaticSource) Load() (*Configuration, error) { return s.cfg, nil }

func (s *StaticSource) Priority() int { return s.priority }

func (s *StaticSource) Name() string { return s.name }
