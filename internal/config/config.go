package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"simrng/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Admin      AdminConfig
	Statistics StatisticsConfig
	Generation GenerationConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// AdminConfig holds the metrics/pprof/health server settings
type AdminConfig struct {
	Port    string
	Enabled bool
}

// StatisticsConfig holds goodness-of-fit evaluation settings
type StatisticsConfig struct {
	SignificanceLevel float64
	MinExpectedCount  float64
	CriticalMethod    string
	Workers           int
	MaxConcurrentJobs int
}

// GenerationConfig holds sample generation limits
type GenerationConfig struct {
	MaxSampleCount int
	PageSize       int
}

// DatabaseConfig holds the optional evaluation ledger connection
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// Critical value resolution methods
const (
	CriticalNewton = "newton"
	CriticalTable  = "table"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := Default()

	config.Server = *loadServerConfig()
	config.Admin = *loadAdminConfig()
	config.Statistics = *loadStatisticsConfig()
	config.Generation = *loadGenerationConfig()
	config.Database = DatabaseConfig{URL: os.Getenv("DATABASE_URL")}
	config.Logging = LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "logfmt"),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3000",
			GinMode:         "release",
			CORSOrigins:     []string{"http://127.0.0.1:5173", "http://localhost:5173"},
			ShutdownTimeout: 10 * time.Second,
		},
		Admin: AdminConfig{
			Port:    "6060",
			Enabled: true,
		},
		Statistics: StatisticsConfig{
			SignificanceLevel: 0.05,
			MinExpectedCount:  5,
			CriticalMethod:    CriticalNewton,
			Workers:           runtime.GOMAXPROCS(0),
			MaxConcurrentJobs: 4,
		},
		Generation: GenerationConfig{
			MaxSampleCount: 5_000_000,
			PageSize:       30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "logfmt",
		},
	}
}

func loadServerConfig() *ServerConfig {
	def := Default().Server
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", def.Port),
		GinMode:         getEnvOrDefault("GIN_MODE", def.GinMode),
		CORSOrigins:     getEnvListOrDefault("CORS_ORIGINS", def.CORSOrigins),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", def.ShutdownTimeout),
	}
}

func loadAdminConfig() *AdminConfig {
	def := Default().Admin
	return &AdminConfig{
		Port:    getEnvOrDefault("ADMIN_PORT", def.Port),
		Enabled: getEnvBoolOrDefault("ADMIN_ENABLED", def.Enabled),
	}
}

func loadStatisticsConfig() *StatisticsConfig {
	def := Default().Statistics
	return &StatisticsConfig{
		SignificanceLevel: getEnvFloatOrDefault("SIGNIFICANCE_LEVEL", def.SignificanceLevel),
		MinExpectedCount:  getEnvFloatOrDefault("MIN_EXPECTED_COUNT", def.MinExpectedCount),
		CriticalMethod:    strings.ToLower(getEnvOrDefault("CRITICAL_METHOD", def.CriticalMethod)),
		Workers:           ClampWorkers(getEnvIntOrDefault("WORKERS", def.Workers)),
		MaxConcurrentJobs: getEnvIntOrDefault("MAX_CONCURRENT_JOBS", def.MaxConcurrentJobs),
	}
}

func loadGenerationConfig() *GenerationConfig {
	def := Default().Generation
	return &GenerationConfig{
		MaxSampleCount: getEnvIntOrDefault("MAX_SAMPLE_COUNT", def.MaxSampleCount),
		PageSize:       getEnvIntOrDefault("PAGE_SIZE", def.PageSize),
	}
}

// ClampWorkers bounds a requested worker count to [1, GOMAXPROCS].
func ClampWorkers(n int) int {
	limit := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}

// Validate checks the configuration for values the services cannot run with
func (c *Config) Validate() error {
	s := c.Statistics
	if s.SignificanceLevel <= 0 || s.SignificanceLevel >= 1 {
		return errors.ConfigInvalid("SIGNIFICANCE_LEVEL must be in (0, 1)")
	}
	if s.MinExpectedCount <= 0 {
		return errors.ConfigInvalid("MIN_EXPECTED_COUNT must be positive")
	}
	if s.CriticalMethod != CriticalNewton && s.CriticalMethod != CriticalTable {
		return errors.ConfigInvalid("CRITICAL_METHOD must be 'newton' or 'table'")
	}
	if s.MaxConcurrentJobs < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_JOBS must be at least 1")
	}
	if c.Generation.MaxSampleCount < 1 {
		return errors.ConfigInvalid("MAX_SAMPLE_COUNT must be at least 1")
	}
	if c.Generation.PageSize < 1 {
		return errors.ConfigInvalid("PAGE_SIZE must be at least 1")
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
