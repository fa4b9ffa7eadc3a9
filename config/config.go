package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigFile names an optional YAML file read before the other
	// environment variables are applied.
	EnvConfigFile = "TABLEPDF_CONFIG"

	// EnvMaxFileBytes is the environment variable name for the input size limit.
	EnvMaxFileBytes = "TABLEPDF_MAX_FILE_BYTES"
	// EnvPageSize selects the page size new sessions start with.
	EnvPageSize = "TABLEPDF_PAGE_SIZE"
	// EnvCustomWidth and EnvCustomHeight set the initial custom dimensions (mm).
	EnvCustomWidth  = "TABLEPDF_CUSTOM_WIDTH"
	EnvCustomHeight = "TABLEPDF_CUSTOM_HEIGHT"
	// EnvOutputDir is where save_pdf writes when no directory is given.
	EnvOutputDir = "TABLEPDF_OUTPUT_DIR"
	// EnvStripExtension replaces the spreadsheet extension in download names
	// instead of appending ".pdf" to the full name.
	EnvStripExtension = "TABLEPDF_STRIP_EXTENSION"

	// DefaultMaxFileBytes is the default maximum accepted file size (50 MiB).
	DefaultMaxFileBytes int64 = 50 << 20
	// DefaultPageSize is the initial page size selection.
	DefaultPageSize = "a4"
	// DefaultCustomSide is the initial width and height of the custom size.
	DefaultCustomSide = 300.0
)

// Config holds runtime configuration.
type Config struct {
	MaxFileSizeBytes int64   `yaml:"max_file_bytes"`
	PageSize         string  `yaml:"page_size"`
	CustomWidth      float64 `yaml:"custom_width"`
	CustomHeight     float64 `yaml:"custom_height"`
	OutputDir        string  `yaml:"output_dir"`
	StripExtension   bool    `yaml:"strip_extension"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxFileSizeBytes: DefaultMaxFileBytes,
		PageSize:         DefaultPageSize,
		CustomWidth:      DefaultCustomSide,
		CustomHeight:     DefaultCustomSide,
		OutputDir:        ".",
	}
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// Load builds a Config from defaults, the optional YAML file named by
// TABLEPDF_CONFIG, then environment variables. Missing or invalid
// environment values fall back to what came before them; a config file that
// exists but cannot be parsed is an error.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// MustLoad is Load for callers that prefer defaults over failing: a broken
// config file is logged and ignored.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Printf("config: %v; using defaults and environment", err)
		cfg = Default()
		cfg.applyEnv()
	}
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if c.MaxFileSizeBytes <= 0 {
		c.MaxFileSizeBytes = DefaultMaxFileBytes
	}
	if !finitePositive(c.CustomWidth) {
		c.CustomWidth = DefaultCustomSide
	}
	if !finitePositive(c.CustomHeight) {
		c.CustomHeight = DefaultCustomSide
	}
	return nil
}

// envSide parses a page side from the environment. Unset, malformed,
// non-positive and non-finite values are ignored.
func envSide(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !finitePositive(f) {
		return 0, false
	}
	return f, true
}

func finitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMaxFileBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.MaxFileSizeBytes = n
		}
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		c.PageSize = v
	}
	if f, ok := envSide(EnvCustomWidth); ok {
		c.CustomWidth = f
	}
	if f, ok := envSide(EnvCustomHeight); ok {
		c.CustomHeight = f
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvStripExtension); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.StripExtension = b
		}
	}
}
