package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DBUrl            string
	RoleCookieSecret string
	IdentityURL      string
	IdentityKey      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	AppEnv           string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBUrl:            getEnv("DB_URL", ""),
		RoleCookieSecret: getEnv("ROLE_COOKIE_SECRET", ""),
		IdentityURL:      getEnv("IDENTITY_URL", ""),
		IdentityKey:      getEnv("IDENTITY_SERVICE_KEY", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		AppEnv:           normalizeEnv(getEnv("APP_ENV", "production")),
	}

	// An unsigned role claim is a dev-only fallback; refuse to start
	// without a secret anywhere else.
	if cfg.RoleCookieSecret == "" && cfg.AppEnv != "development" {
		return nil, fmt.Errorf("ROLE_COOKIE_SECRET is required outside development")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
