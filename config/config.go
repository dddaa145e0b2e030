package config

import (
	"encoding/hex"
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
	Database DatabaseConfig
	Redis    RedisConfig
	Crypto   CryptoConfig
	Email    EmailConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Backup   BackupConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CryptoConfig holds the key used to encrypt IBANs at rest.
// The key is a 64-character hex string (32 bytes, AES-256).
type CryptoConfig struct {
	IBANEncryptionKey string
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	BaseURL      string
}

type AdminConfig struct {
	PasswordHash string
	JWTSecret    string
	TokenExpiry  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type BackupConfig struct {
	Enabled         bool
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	CronSpec        string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "fitcity"),
			Password: getEnv("DB_PASSWORD", "fitcity"),
			DBName:   getEnv("DB_NAME", "fitcity"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Crypto: CryptoConfig{
			IBANEncryptionKey: getEnv("IBAN_ENCRYPTION_KEY", ""),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromAddress:  getEnv("EMAIL_FROM_ADDRESS", "FitCity Culemborg <noreply@fitcityculemborg.nl>"),
			BaseURL:      getEnv("RESEND_BASE_URL", "https://api.resend.com"),
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("ADMIN_JWT_SECRET", ""),
			TokenExpiry:  parseDuration(getEnv("ADMIN_TOKEN_EXPIRY", "8h")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Backup: BackupConfig{
			Enabled:         getEnv("BACKUP_ENABLED", "false") == "true",
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			CronSpec:        getEnv("BACKUP_CRON", "30 3 * * *"),
		},
	}

	if err := config.Crypto.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Enabled reports whether a Redis host was configured. The server runs
// without Redis; rate limiting and token revocation are skipped then.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Validate checks that the IBAN encryption key decodes to 32 bytes.
// A malformed key must fail at startup, not on the first signup.
func (c *CryptoConfig) Validate() error {
	if c.IBANEncryptionKey == "" {
		return fmt.Errorf("IBAN_ENCRYPTION_KEY is not set")
	}
	key, err := hex.DecodeString(c.IBANEncryptionKey)
	if err != nil {
		return fmt.Errorf("IBAN_ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("IBAN_ENCRYPTION_KEY must be 32 bytes (64 hex characters), got %d bytes", len(key))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 8h", s)
		return 8 * time.Hour
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
