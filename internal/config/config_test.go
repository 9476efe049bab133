package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disperse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	cfg, err := Load(viper.New(), missing)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
validation:
  address_length: 34
  address_prefix: "T"
  allow_empty: false
resolution:
  default_strategy: combine
input:
  delimiter: ";"
  header_rows: 1
output:
  format: table
log:
  level: debug
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 34, cfg.Validation.AddressLength)
	assert.Equal(t, "T", cfg.Validation.AddressPrefix)
	assert.False(t, cfg.Validation.AllowEmpty)
	assert.Equal(t, "combine", cfg.Resolution.DefaultStrategy)
	assert.Equal(t, ";", cfg.Input.Delimiter)
	assert.Equal(t, 1, cfg.Input.HeaderRows)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset values keep their defaults.
	assert.Equal(t, "./output", cfg.Output.Dir)
	assert.Equal(t, "auto", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DISPERSE_LOG_LEVEL", "warn")
	t.Setenv("DISPERSE_OUTPUT_FORMAT", "json")

	path := writeConfig(t, "log:\n  level: debug\n")
	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad output format", "output:\n  format: xml\n"},
		{"bad strategy", "resolution:\n  default_strategy: merge\n"},
		{"negative header rows", "input:\n  header_rows: -1\n"},
		{"length shorter than prefix", "validation:\n  address_length: 1\n  address_prefix: \"0x\"\n"},
		{"malformed yaml", "output: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
