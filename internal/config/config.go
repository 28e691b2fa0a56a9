package config

import (
	"os"
	"strconv"
	"time"

	"github.com/greenminds/greenminds-api/internal/constants"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port              string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	JWTSecret         string
	TokenTTL          time.Duration
	GinMode           string
	RedisAddr         string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "greenminds"),
		DBPassword:        getEnv("DB_PASSWORD", "greenminds"),
		DBName:            getEnv("DB_NAME", "greenminds"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		JWTSecret:         getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 24*time.Hour),
		GinMode:           getEnv("GIN_MODE", "debug"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warn("invalid integer in environment, using default")
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithField("key", key).Warn("invalid duration in environment, using default")
		return defaultValue
	}
	return d
}
