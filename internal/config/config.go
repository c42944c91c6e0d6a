// =============================================================================
// CSV Field Rewriter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the optional YAML configuration file.
// Every setting has a default, so the application runs without any file:
// it reads random_data.csv, rewrites "id" and "email", and writes output.csv.
//
// CONFIGURATION FILE (rewriter.yaml):
//   input_file: random_data.csv
//   output_file: output.csv
//   log_level: info
//   csv_settings:
//     delimiter: ","
//   xlsx_settings:
//     sheet: ""
//   rewrites:
//     - field: id
//       generator: uuid
//     - field: email
//       generator: email
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultConfigFile is the config path used when --config is not given.
	DefaultConfigFile = "rewriter.yaml"

	// DefaultInputFile is the input read when nothing else is configured.
	DefaultInputFile = "random_data.csv"

	// DefaultOutputFile is the output written when nothing else is configured.
	DefaultOutputFile = "output.csv"

	// DefaultLogLevel is the zerolog level name used by default.
	DefaultLogLevel = "info"

	// DefaultDelimiter is the CSV field separator.
	DefaultDelimiter = ","
)

// Generator names understood by the transformer.
const (
	GeneratorUUID      = "uuid"
	GeneratorEmail     = "email"
	GeneratorFirstName = "first_name"
	GeneratorLastName  = "last_name"
	GeneratorPhone     = "phone"
	GeneratorCity      = "city"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// InputFile is the CSV (or XLSX) file to read.
	// Default: "random_data.csv"
	InputFile string `yaml:"input_file" validate:"required"`

	// OutputFile is the CSV file to create or truncate.
	// Default: "output.csv"
	OutputFile string `yaml:"output_file" validate:"required,nefield=InputFile"`

	// LogLevel controls the verbosity of logging on stderr.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// CSVSettings controls the CSV dialect for both input and output.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSettings is only used when the input file is a workbook.
	XLSXSettings XLSXSettings `yaml:"xlsx_settings"`

	// Rewrites lists the fields replaced in every record, applied in order.
	// Default: id -> uuid, email -> email
	Rewrites []FieldRule `yaml:"rewrites" validate:"min=1,unique=Field,dive"`
}

// CSVSettings contains settings for reading and writing CSV files.
type CSVSettings struct {
	// Delimiter is the field separator. Besides a single character, the
	// names "tab", "pipe" and "semicolon" are accepted.
	// Default: ","
	Delimiter string `yaml:"delimiter" validate:"required"`
}

// XLSXSettings contains settings for reading XLSX workbooks.
type XLSXSettings struct {
	// Sheet is the worksheet to read. Empty selects the first sheet.
	Sheet string `yaml:"sheet"`
}

// FieldRule replaces one field with a generated value.
type FieldRule struct {
	// Field is the column name to upsert.
	Field string `yaml:"field" validate:"required"`

	// Generator names the value source, e.g. "uuid" or "email".
	Generator string `yaml:"generator" validate:"required,oneof=uuid email first_name last_name phone city"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: When false, a missing file yields the defaults instead of an error.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - Whether the file was actually read.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string, required bool) (*Config, bool, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), false, nil
		}
		return nil, false, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, true, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputFile == "" {
		cfg.InputFile = DefaultInputFile
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = DefaultOutputFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = DefaultDelimiter
	}
	if len(cfg.Rewrites) == 0 {
		cfg.Rewrites = []FieldRule{
			{Field: "id", Generator: GeneratorUUID},
			{Field: "email", Generator: GeneratorEmail},
		}
	}
}

// Validate checks the configuration after defaults and flag overrides
// have been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if _, err := c.CSVSettings.Comma(); err != nil {
		return err
	}

	return nil
}

// Comma resolves the delimiter setting to a single rune.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "\\t", "tab", "TAB":
		return '\t', nil
	case "pipe", "PIPE":
		return '|', nil
	case "semicolon":
		return ';', nil
	case "":
		return ',', nil
	}

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s.Delimiter)
	}

	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s.Delimiter)
	}

	return r, nil
}
