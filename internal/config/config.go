// Package config provides configuration types and defaults for test-inventory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/javierhbr/test-inventory-sub000/internal/log"
)

// Config errors
var (
	ErrRegistryPathRequired = errors.New("registry_path is required")
	ErrDBPathRequired       = errors.New("db_path is required")
)

// Config holds all configuration options for test-inventory.
type Config struct {
	// RegistryPath is the YAML file holding rule groups and recipe groups.
	RegistryPath string `mapstructure:"registry_path"`

	// DBPath is the sqlite database holding classification sets.
	DBPath string `mapstructure:"db_path"`

	// AutoReload reloads the registry when its file changes on disk.
	AutoReload bool `mapstructure:"auto_reload"`

	// AutoReloadDebounce coalesces bursts of file events.
	AutoReloadDebounce time.Duration `mapstructure:"auto_reload_debounce"`

	// Vocabulary is the fixed list of plain labels offered as suggestions.
	Vocabulary []string `mapstructure:"vocabulary"`

	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// CacheConfig controls the registry snapshot cache.
type CacheConfig struct {
	// TTL is how long a loaded registry snapshot is reused. Zero disables the cache.
	TTL time.Duration `mapstructure:"ttl"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowLineOfBusiness bool   `mapstructure:"show_line_of_business"`
	MarkdownStyle      string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// TracingConfig holds tracing configuration for registry load/save and tag commits.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/test-inventory/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// ConfigDir returns ~/.config/test-inventory or empty string if the home
// directory is unavailable.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "test-inventory")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		RegistryPath:       filepath.Join(".test-inventory", "registry.yaml"),
		DBPath:             filepath.Join(".test-inventory", "inventory.db"),
		AutoReload:         true,
		AutoReloadDebounce: 100 * time.Millisecond,
		Vocabulary:         DefaultVocabulary(),
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		UI: UIConfig{
			ShowLineOfBusiness: true,
			MarkdownStyle:      "dark",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultVocabulary returns the plain labels offered out of the box.
func DefaultVocabulary() []string {
	return []string{"smoke", "regression", "sanity", "e2e", "manual", "automated", "flaky", "blocked"}
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if c.RegistryPath == "" {
		return ErrRegistryPathRequired
	}
	if c.DBPath == "" {
		return ErrDBPathRequired
	}
	if c.AutoReloadDebounce < 0 {
		return fmt.Errorf("auto_reload_debounce must not be negative, got %v", c.AutoReloadDebounce)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", c.Cache.TTL)
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# test-inventory configuration

# Rule groups and recipe groups
registry_path: .test-inventory/registry.yaml

# Classification sets of tests, test data and execution carts
db_path: .test-inventory/inventory.db

# Reload the registry when the file changes on disk
auto_reload: true
auto_reload_debounce: 100ms

# Plain labels offered as suggestions (semantic tags come from the registry)
vocabulary:
  - smoke
  - regression
  - sanity
  - e2e
  - manual
  - automated
  - flaky
  - blocked

# How long a loaded registry snapshot is reused (0 disables the cache)
cache:
  ttl: 5m

# UI settings
ui:
  show_line_of_business: true  # Show the line of business next to each group
  # markdown_style: dark       # Recipe description style: "dark" (default) or "light"

# Tracing of registry loads, saves and tag commits
# tracing:
#   enabled: false
#   exporter: file          # none, file, stdout, otlp
#   file_path: ~/.config/test-inventory/traces/traces.jsonl
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
