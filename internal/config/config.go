package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the logwarden release, set at build time via -ldflags.
var Version = "dev"

// Config holds all logwarden configuration.
type Config struct {
	Input    InputConfig  `yaml:"input"`
	Engine   EngineConfig `yaml:"engine"`
	Output   OutputConfig `yaml:"output"`
	LogLevel string       `yaml:"log_level"`

	ShowVersion bool `yaml:"-"`
}

// InputConfig holds settings for the log being analyzed.
type InputConfig struct {
	Path         string `yaml:"path"`
	Validation   string `yaml:"validation"`    // "strict", "lenient"
	RequireValid bool   `yaml:"require_valid"` // stop the run when validation fails
}

// EngineConfig holds analysis settings.
type EngineConfig struct {
	FailedLoginThreshold int `yaml:"failed_login_threshold"`
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format         string            `yaml:"format"` // "text", "json", "csv"
	Pretty         bool              `yaml:"pretty"`
	CSVPath        string            `yaml:"csv_path"`
	WebhookURL     string            `yaml:"webhook_url"`
	WebhookTimeout time.Duration     `yaml:"webhook_timeout"`
	WebhookHeaders map[string]string `yaml:"webhook_headers"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Input: InputConfig{
			Validation:   "strict",
			RequireValid: true,
		},
		Engine: EngineConfig{
			FailedLoginThreshold: 10,
		},
		Output: OutputConfig{
			Format:         "text",
			WebhookTimeout: 10 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// LOGWARDEN_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("LOGWARDEN_CONFIG"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile decodes the YAML file at path over cfg. Keys absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Input.Path = getenv("LOGWARDEN_INPUT", cfg.Input.Path)
	cfg.Input.Validation = getenv("LOGWARDEN_VALIDATION", cfg.Input.Validation)
	cfg.Input.RequireValid = getenvBool("LOGWARDEN_REQUIRE_VALID", cfg.Input.RequireValid)
	cfg.Engine.FailedLoginThreshold = getenvInt("LOGWARDEN_FAILED_LOGIN_THRESHOLD", cfg.Engine.FailedLoginThreshold)
	cfg.Output.Format = getenv("LOGWARDEN_OUTPUT", cfg.Output.Format)
	cfg.Output.Pretty = getenvBool("LOGWARDEN_OUTPUT_PRETTY", cfg.Output.Pretty)
	cfg.Output.CSVPath = getenv("LOGWARDEN_CSV_PATH", cfg.Output.CSVPath)
	cfg.Output.WebhookURL = getenv("LOGWARDEN_WEBHOOK_URL", cfg.Output.WebhookURL)
	cfg.Output.WebhookTimeout = getenvDuration("LOGWARDEN_WEBHOOK_TIMEOUT", cfg.Output.WebhookTimeout)
	cfg.LogLevel = getenv("LOGWARDEN_LOG_LEVEL", cfg.LogLevel)
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Input.Validation {
	case "strict", "lenient":
	default:
		errs = append(errs, fmt.Errorf("validation mode %q: must be strict or lenient", c.Input.Validation))
	}

	if c.Engine.FailedLoginThreshold < 0 {
		errs = append(errs, fmt.Errorf("failed login threshold %d: must be >= 0", c.Engine.FailedLoginThreshold))
	}

	switch c.Output.Format {
	case "text", "json", "csv":
	default:
		errs = append(errs, fmt.Errorf("output format %q: must be text, json, or csv", c.Output.Format))
	}

	if c.Output.WebhookURL != "" {
		u, err := url.Parse(c.Output.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("webhook url %q: must be an absolute http(s) URL", c.Output.WebhookURL))
		}
		if c.Output.WebhookTimeout <= 0 {
			errs = append(errs, fmt.Errorf("webhook timeout %v: must be > 0", c.Output.WebhookTimeout))
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log level %q: must be debug, info, warn, or error", c.LogLevel))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
