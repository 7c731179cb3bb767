package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env         string
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	BaseURL     string
	AdminEmails map[string]struct{}
	S3          S3Config
	Logging     LoggingConfig
}

type S3Config struct {
	Endpoint       string
	PublicEndpoint string
	Bucket         string
	AccessKey      string
	SecretKey      string
	Region         string
	UseSSL         bool
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:         getenv("APP_ENV", "dev"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		BaseURL:     getenv("BASE_URL", "http://localhost:8080"),
		AdminEmails: parseEmailSet(os.Getenv("ADMIN_EMAILS")),
		S3: S3Config{
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
			Bucket:         os.Getenv("S3_BUCKET"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("S3_SECRET_KEY"),
			Region:         getenv("S3_REGION", "us-east-1"),
			UseSSL:         getenvBool("S3_USE_SSL", true),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsAdminEmail reports whether email is on the ADMIN_EMAILS allowlist.
func (c *Config) IsAdminEmail(email string) bool {
	_, ok := c.AdminEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

func parseEmailSet(val string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(val, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		set[part] = struct{}{}
	}
	return set
}
