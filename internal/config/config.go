package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port            int
	MaxPrice        float64
	MaxPayment      float64
	MaxRate         float64
	MaxHorizonYears int
	MaxPrepayments  int
	MaxScenarios    int
	RateLimit       int
	RedisAddr       string
	DatabaseDriver  string
	DatabaseDSN     string
	SessionTTL      time.Duration
	DefaultsFile    string
	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string

	Defaults Defaults
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvInt("PORT", 8000),
		MaxPrice:        getEnvFloat("MAX_PRICE", 1e9),
		MaxPayment:      getEnvFloat("MAX_PAYMENT", 1e8),
		MaxRate:         getEnvFloat("MAX_RATE", 200),
		MaxHorizonYears: getEnvInt("MAX_HORIZON_YEARS", 50),
		MaxPrepayments:  getEnvInt("MAX_PREPAYMENTS", 100),
		MaxScenarios:    getEnvInt("MAX_SCENARIOS", 8),
		RateLimit:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RedisAddr:       getEnvString("REDIS_ADDR", ""),
		DatabaseDriver:  getEnvString("DATABASE_DRIVER", "sqlite3"),
		DatabaseDSN:     getEnvString("DATABASE_DSN", ""),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		DefaultsFile:    getEnvString("DEFAULTS_FILE", ""),
		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "mcp-mortgage-server"),
		LogLevel:        getEnvString("LOG_LEVEL", "INFO"),
	}

	defaults, err := LoadDefaults(cfg.DefaultsFile)
	if err != nil {
		return nil, err
	}
	cfg.Defaults = defaults

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// UsesRedis сессии хранятся в Redis
func (c *Config) UsesRedis() bool {
	return c.RedisAddr != ""
}

// UsesSQL сессии хранятся в SQL базе (sqlite3 или postgres)
func (c *Config) UsesSQL() bool {
	return c.RedisAddr == "" && c.DatabaseDSN != ""
}
