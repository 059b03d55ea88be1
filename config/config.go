package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	KV       KVConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Model    ModelConfig
	Wizard   WizardConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// KVConfig selects the key-value backend that holds projects and settings.
type KVConfig struct {
	Backend   string // memory, file, redis, postgres
	Namespace string
	FilePath  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type ModelConfig struct {
	BaseURL      string
	DefaultModel string
	MaxTokens    int
	Timeout      time.Duration
	RateLimit    float64 // requests per second
	Burst        int
}

type WizardConfig struct {
	SessionIdleTTL   time.Duration
	SweepSpec        string
	ProgressInterval time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		KV: KVConfig{
			Backend:   strings.ToLower(getEnv("KV_BACKEND", BackendRedis)),
			Namespace: getEnv("KV_NAMESPACE", "seniordesign"),
			FilePath:  getEnv("KV_FILE_PATH", defaultFilePath()),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "seniordesign"),
		},
		Model: ModelConfig{
			BaseURL:      getEnv("MODEL_BASE_URL", "https://api.anthropic.com/v1"),
			DefaultModel: getEnv("MODEL_DEFAULT", "claude-sonnet-4-20250514"),
			MaxTokens:    getEnvAsInt("MODEL_MAX_TOKENS", 4000),
			Timeout:      getEnvAsDuration("MODEL_TIMEOUT", 90*time.Second),
			RateLimit:    getEnvAsFloat("MODEL_RATE_LIMIT", 1),
			Burst:        getEnvAsInt("MODEL_RATE_BURST", 2),
		},
		Wizard: WizardConfig{
			SessionIdleTTL:   getEnvAsDuration("WIZARD_SESSION_TTL", 30*time.Minute),
			SweepSpec:        getEnv("WIZARD_SWEEP_SPEC", "@every 1m"),
			ProgressInterval: getEnvAsDuration("WIZARD_PROGRESS_INTERVAL", 800*time.Millisecond),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "2.1.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.KV.Backend {
	case BackendMemory:
	case BackendFile:
		if c.KV.FilePath == "" {
			return fmt.Errorf("KV_FILE_PATH is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown KV_BACKEND %q", c.KV.Backend)
	}

	if c.KV.Namespace == "" {
		return fmt.Errorf("KV_NAMESPACE is required")
	}

	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("MODEL_MAX_TOKENS must be positive")
	}

	return nil
}

func defaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".seniordesign/state.json"
	}
	return home + "/.seniordesign/state.json"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
