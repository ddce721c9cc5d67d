package config

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"wizard.dev/pluginsdk/pkg/plugin"
)

// ErrIncompleteMetadata is returned when plugin identity fields are missing.
var ErrIncompleteMetadata = errors.New("incomplete plugin metadata")

var logLevels = []string{"debug", "info", "warn", "error"}

// Validator checks configuration values.
type Validator struct {
	versionPattern *regexp.Regexp
}

// NewValidator returns a validator.
func NewValidator() *Validator {
	return &Validator{
		// major.minor.patch with optional pre-release and build suffixes
		versionPattern: regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`),
	}
}

// Validate checks the fields that are set. Plugin identity may be incomplete;
// commands that need it call ValidateMetadata.
func (v *Validator) Validate(cfg *Configuration) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if cfg.Plugin.UUID != "" {
		if err := v.ValidateUUID(cfg.Plugin.UUID); err != nil {
			return err
		}
	}
	if cfg.Plugin.Version != "" {
		if err := v.ValidateVersion(cfg.Plugin.Version); err != nil {
			return err
		}
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return fmt.Errorf("log level must be one of: %s", strings.Join(logLevels, ", "))
	}
	if cfg.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce cannot be negative")
	}
	if cfg.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}
	return nil
}

// ValidateUUID checks a plugin UUID.
func (v *Validator) ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid plugin uuid %q: %w", id, err)
	}
	return nil
}

// ValidateVersion checks a semantic version.
func (v *Validator) ValidateVersion(version string) error {
	if !v.versionPattern.MatchString(version) {
		return fmt.Errorf("invalid plugin version %q: expected major.minor.patch", version)
	}
	return nil
}

// ValidateMetadata requires a complete and valid plugin identity.
func (v *Validator) ValidateMetadata(m plugin.Metadata) error {
	var missing []string
	if m.UUID == "" {
		missing = append(missing, "uuid")
	}
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Version == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteMetadata, strings.Join(missing, ", "))
	}
	if err := v.ValidateUUID(m.UUID); err != nil {
		return err
	}
	return v.ValidateVersion(m.Version)
}
