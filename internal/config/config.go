package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	DBDriver         string
	PostgresDSN      string
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnMaxIdle    time.Duration
	DBConnMaxLife    time.Duration
	RequestTimeout   time.Duration
	RedisURL         string
	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string
	LogLevel         string
	MigrateOnStart   bool
	CORSOrigins      []string
	AdminName        string
	AdminEmail       string
	AdminPassword    string
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "5000"),
		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		PostgresDSN:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenTTL:         getDuration("TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:       getInt("BCRYPT_COST", 10),
		DBMaxOpenConns:   getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:    getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:    getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 30*time.Second),
		RedisURL:         getEnv("REDIS_URL", ""),
		CloudinaryName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: getEnv("CLOUDINARY_API_SECRET", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MigrateOnStart:   getBool("MIGRATE_ON_START", true),
		CORSOrigins:      getList("CORS_ORIGINS"),
		AdminName:        getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.PostgresDSN == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
