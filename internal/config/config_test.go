package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidate_RequiredPaths(t *testing.T) {
	cfg := Defaults()
	cfg.RegistryPath = ""
	require.ErrorIs(t, Validate(cfg), ErrRegistryPathRequired)

	cfg = Defaults()
	cfg.DBPath = ""
	require.ErrorIs(t, Validate(cfg), ErrDBPathRequired)
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.TTL = -time.Second
	require.ErrorContains(t, Validate(cfg), "cache.ttl")

	cfg = Defaults()
	cfg.AutoReloadDebounce = -time.Millisecond
	require.ErrorContains(t, Validate(cfg), "auto_reload_debounce")
}

func TestValidateUI(t *testing.T) {
	require.NoError(t, ValidateUI(UIConfig{MarkdownStyle: "light"}))
	require.NoError(t, ValidateUI(UIConfig{}))
	require.ErrorContains(t, ValidateUI(UIConfig{MarkdownStyle: "neon"}), "markdown_style")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr string
	}{
		{"defaults", Defaults().Tracing, ""},
		{"sample rate too high", TracingConfig{SampleRate: 1.5}, "sample_rate"},
		{"sample rate negative", TracingConfig{SampleRate: -0.1}, "sample_rate"},
		{"unknown exporter", TracingConfig{Exporter: "kafka", SampleRate: 1}, "exporter"},
		{"file without path", TracingConfig{Enabled: true, Exporter: "file", SampleRate: 1}, "file_path"},
		{"otlp without endpoint", TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1}, "otlp_endpoint"},
		{"disabled file without path", TracingConfig{Exporter: "file", SampleRate: 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	def := Defaults()
	require.Equal(t, def.RegistryPath, cfg.RegistryPath)
	require.Equal(t, def.DBPath, cfg.DBPath)
	require.Equal(t, def.AutoReload, cfg.AutoReload)
	require.Equal(t, def.AutoReloadDebounce, cfg.AutoReloadDebounce)
	require.Equal(t, def.Vocabulary, cfg.Vocabulary)
	require.Equal(t, def.Cache.TTL, cfg.Cache.TTL)
	require.True(t, cfg.UI.ShowLineOfBusiness)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
