package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"dsemotion/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Engine   EngineConfig
	Input    InputConfig
	Server   ServerConfig
	Database DatabaseConfig
	Report   ReportConfig
	LogLevel string
}

// EngineConfig holds classification settings
type EngineConfig struct {
	Workers           int // 0 means GOMAXPROCS
	EvidenceMass      float64
	StrictRanges      bool
	KnowledgeBaseFile string // empty means the built-in table
}

// InputConfig holds measurement file settings
type InputConfig struct {
	File      string
	Sheet     string
	Delimiter rune
	Layout    string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings. An empty URL keeps runs in memory.
type DatabaseConfig struct {
	URL string
}

// ReportConfig holds output settings
type ReportConfig struct {
	Format string
}

const (
	DefaultEvidenceMass = 0.8
	DefaultDelimiter    = ';'
	DefaultLayout       = "positional"
	DefaultReportFormat = "json"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	engineConfig, err := loadEngineConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load engine configuration")
	}
	config.Engine = *engineConfig

	inputConfig, err := loadInputConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load input configuration")
	}
	config.Input = *inputConfig

	serverConfig, err := loadServerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load server configuration")
	}
	config.Server = *serverConfig

	config.Database = DatabaseConfig{URL: os.Getenv("DATABASE_URL")}
	config.Report = ReportConfig{Format: strings.ToLower(getEnvOrDefault("REPORT_FORMAT", DefaultReportFormat))}
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadEngineConfig() (*EngineConfig, error) {
	workers, err := getEnvIntOrDefault("WORKERS", 0)
	if err != nil {
		return nil, err
	}
	mass, err := getEnvFloatOrDefault("EVIDENCE_MASS", DefaultEvidenceMass)
	if err != nil {
		return nil, err
	}
	strict, err := getEnvBoolOrDefault("STRICT_RANGES", false)
	if err != nil {
		return nil, err
	}

	return &EngineConfig{
		Workers:           workers,
		EvidenceMass:      mass,
		StrictRanges:      strict,
		KnowledgeBaseFile: os.Getenv("KNOWLEDGE_BASE_FILE"),
	}, nil
}

func loadInputConfig() (*InputConfig, error) {
	delimiter, err := ParseDelimiter(getEnvOrDefault("CSV_DELIMITER", string(DefaultDelimiter)))
	if err != nil {
		return nil, err
	}

	return &InputConfig{
		File:      os.Getenv("INPUT_FILE"),
		Sheet:     os.Getenv("INPUT_SHEET"),
		Delimiter: delimiter,
		Layout:    strings.ToLower(getEnvOrDefault("COLUMN_LAYOUT", DefaultLayout)),
	}, nil
}

func loadServerConfig() (*ServerConfig, error) {
	timeout, err := getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: timeout,
	}, nil
}

// Validate checks value ranges that the parsers cannot.
func (c *Config) Validate() error {
	if c.Engine.Workers < 0 {
		return errors.ConfigInvalid("WORKERS cannot be negative")
	}
	if c.Engine.EvidenceMass <= 0 || c.Engine.EvidenceMass > 1 {
		return errors.ConfigInvalid(fmt.Sprintf("EVIDENCE_MASS must be in (0, 1], got %g", c.Engine.EvidenceMass))
	}
	switch c.Input.Layout {
	case "header", "positional":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("COLUMN_LAYOUT must be header or positional, got %q", c.Input.Layout))
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("PORT must be a number, got %q", c.Server.Port))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", c.Server.GinMode))
	}
	return nil
}

// ParseDelimiter accepts a single character, or "tab" / "\t".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.ConfigInvalid(fmt.Sprintf("CSV_DELIMITER must be a single character, got %q", s))
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be true or false, got %q", key, value))
	}
	return boolValue, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a duration, got %q", key, value))
	}
	return duration, nil
}
