// =============================================================================
// Disperse Input - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES (highest precedence first):
//   1. Command-line flags (bound by the cmd package)
//   2. Environment variables prefixed with DISPERSE_ (e.g. DISPERSE_LOG_LEVEL)
//   3. The YAML configuration file (--config, default ./disperse.yaml)
//   4. Built-in defaults
//
// A missing configuration file is not an error; the defaults are used.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "DISPERSE"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Validation controls the line validation rules.
	Validation ValidationSettings `mapstructure:"validation" yaml:"validation"`

	// Resolution controls duplicate resolution.
	Resolution ResolutionSettings `mapstructure:"resolution" yaml:"resolution"`

	// Input controls how uploaded files are read.
	Input InputSettings `mapstructure:"input" yaml:"input"`

	// Output controls how results and batches are rendered.
	Output OutputSettings `mapstructure:"output" yaml:"output"`

	// Log controls logging.
	Log LogSettings `mapstructure:"log" yaml:"log"`
}

// ValidationSettings contains the address and input rules.
type ValidationSettings struct {
	// AddressLength is the exact length an address must have.
	// Default: 42
	AddressLength int `mapstructure:"address_length" yaml:"address_length"`

	// AddressPrefix is the prefix every address must start with.
	// Default: "0x"
	AddressPrefix string `mapstructure:"address_prefix" yaml:"address_prefix"`

	// AllowEmpty treats empty input as "no data, no error".
	// Default: true
	AllowEmpty bool `mapstructure:"allow_empty" yaml:"allow_empty"`
}

// ResolutionSettings contains duplicate resolution settings.
type ResolutionSettings struct {
	// DefaultStrategy is used when the resolve command is run without
	// --strategy. Valid values: "keep-first", "combine"
	// Default: "keep-first"
	DefaultStrategy string `mapstructure:"default_strategy" yaml:"default_strategy"`
}

// InputSettings contains settings for reading uploaded files.
type InputSettings struct {
	// Delimiter is the field separator for .csv files.
	// Common values: "," (comma), ";" (semicolon), "\t" or "tab"
	// Default: ","
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// HeaderRows is the number of leading rows to skip in .csv and .xlsx files.
	// Default: 0
	HeaderRows int `mapstructure:"header_rows" yaml:"header_rows"`

	// Sheet is the worksheet to read from .xlsx files.
	// Empty means the first sheet.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`
}

// OutputSettings contains rendering settings.
type OutputSettings struct {
	// Format is the default output format.
	// Valid values: "text", "table", "yaml", "json"
	// Default: "text"
	Format string `mapstructure:"format" yaml:"format"`

	// Dir is the directory where submitted batches are written when the
	// submit command is run with --save.
	// Default: "./output"
	Dir string `mapstructure:"dir" yaml:"dir"`

	// FileNameFormat defines the name of saved batch files.
	// Placeholders:
	//   {uuid}      - The batch ID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "batch_{timestamp}_{uuid}.yaml"
	FileNameFormat string `mapstructure:"file_name_format" yaml:"file_name_format"`
}

// LogSettings contains logging settings.
type LogSettings struct {
	// Level controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log output format.
	// Valid values: "auto", "console", "json"
	// Default: "auto"
	Format string `mapstructure:"format" yaml:"format"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Validation: ValidationSettings{
			AddressLength: 42,
			AddressPrefix: "0x",
			AllowEmpty:    true,
		},
		Resolution: ResolutionSettings{
			DefaultStrategy: "keep-first",
		},
		Input: InputSettings{
			Delimiter: ",",
		},
		Output: OutputSettings{
			Format:         "text",
			Dir:            "./output",
			FileNameFormat: "batch_{timestamp}_{uuid}.yaml",
		},
		Log: LogSettings{
			Level:  "info",
			Format: "auto",
		},
	}
}

// SetDefaults registers every default with v so environment overrides are
// picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("validation.address_length", d.Validation.AddressLength)
	v.SetDefault("validation.address_prefix", d.Validation.AddressPrefix)
	v.SetDefault("validation.allow_empty", d.Validation.AllowEmpty)
	v.SetDefault("resolution.default_strategy", d.Resolution.DefaultStrategy)
	v.SetDefault("input.delimiter", d.Input.Delimiter)
	v.SetDefault("input.header_rows", d.Input.HeaderRows)
	v.SetDefault("input.sheet", d.Input.Sheet)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.file_name_format", d.Output.FileNameFormat)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration file at configPath (if it exists) into v and
// returns the resulting configuration.
//
// PARAMETERS:
//   - v: The viper instance; flags may already be bound to it.
//   - configPath: The path to the configuration file. Empty means search
//     for disperse.yaml in the current directory.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file exists but cannot be parsed, or the values are invalid.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("disperse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills values that were explicitly set to empty.
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Validation.AddressLength == 0 {
		cfg.Validation.AddressLength = d.Validation.AddressLength
	}
	if cfg.Validation.AddressPrefix == "" {
		cfg.Validation.AddressPrefix = d.Validation.AddressPrefix
	}
	if cfg.Resolution.DefaultStrategy == "" {
		cfg.Resolution.DefaultStrategy = d.Resolution.DefaultStrategy
	}
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = d.Input.Delimiter
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = d.Output.Format
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = d.Output.Dir
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = d.Output.FileNameFormat
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = d.Log.Format
	}
}

// Validate checks the configuration for values the tool cannot work with.
func Validate(cfg *Config) error {
	if cfg.Validation.AddressLength < len(cfg.Validation.AddressPrefix) {
		return fmt.Errorf("validation.address_length (%d) is shorter than address_prefix %q",
			cfg.Validation.AddressLength, cfg.Validation.AddressPrefix)
	}
	if cfg.Input.HeaderRows < 0 {
		return fmt.Errorf("input.header_rows must not be negative")
	}

	switch strings.ToLower(cfg.Output.Format) {
	case "text", "table", "yaml", "json":
	default:
		return fmt.Errorf("output.format %q is not one of text, table, yaml, json", cfg.Output.Format)
	}

	switch strings.ToLower(cfg.Resolution.DefaultStrategy) {
	case "keep-first", "keep_first", "keep", "first", "combine", "sum":
	default:
		return fmt.Errorf("resolution.default_strategy %q is not keep-first or combine", cfg.Resolution.DefaultStrategy)
	}

	return nil
}
