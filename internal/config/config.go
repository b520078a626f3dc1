package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	DB    DatabaseConfig
	Redis RedisConfig
	S3    S3Config
	Auth  AuthConfig
	Cache CacheConfig
	CORS  CORSConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// S3Config contains object store configuration for gallery images.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// AuthConfig contains session, password, and two-factor parameters.
type AuthConfig struct {
	// PasswordSalt is the application-wide salt mixed into password digests.
	// Changing it invalidates every stored credential.
	PasswordSalt string
	// AdminSetupKey guards the out-of-band admin registration endpoint.
	AdminSetupKey string
	// TOTPIssuer is the issuer label shown in authenticator apps.
	TOTPIssuer string

	SessionTTL      time.Duration
	PendingTTL      time.Duration
	CleanupInterval time.Duration
}

// CacheConfig contains TTLs for the read-through content cache.
type CacheConfig struct {
	MenuTTL    time.Duration
	ContentTTL time.Duration
}

// CORSConfig lists the hosts allowed to call the API from a browser.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// S3 (gallery images)
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "eu-central-1"),
		Bucket:          getEnv("S3_BUCKET", "tavola-gallery"),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Auth
	cfg.Auth = AuthConfig{
		PasswordSalt:  getEnv("AUTH_PASSWORD_SALT", ""),
		AdminSetupKey: getEnv("AUTH_ADMIN_SETUP_KEY", ""),
		TOTPIssuer:    getEnv("AUTH_TOTP_ISSUER", "Tavola"),
	}

	var err error
	if cfg.Auth.SessionTTL, err = parseDurationEnv("AUTH_SESSION_TTL", "168h"); err != nil {
		return nil, fmt.Errorf("invalid AUTH_SESSION_TTL: %w", err)
	}
	if cfg.Auth.PendingTTL, err = parseDurationEnv("AUTH_PENDING_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid AUTH_PENDING_TTL: %w", err)
	}
	if cfg.Auth.CleanupInterval, err = parseDurationEnv("AUTH_CLEANUP_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid AUTH_CLEANUP_INTERVAL: %w", err)
	}

	// Cache TTLs
	if cfg.Cache.MenuTTL, err = parseDurationEnv("CACHE_MENU_TTL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_MENU_TTL: %w", err)
	}
	if cfg.Cache.ContentTTL, err = parseDurationEnv("CACHE_CONTENT_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_CONTENT_TTL: %w", err)
	}

	// CORS
	hosts := getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000,tavola.restaurant,www.tavola.restaurant,admin.tavola.restaurant")
	for _, h := range strings.Split(hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			cfg.CORS.AllowedHosts = append(cfg.CORS.AllowedHosts, strings.ToLower(h))
		}
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.Auth.PasswordSalt == "" {
		return nil, errors.New("AUTH_PASSWORD_SALT must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
