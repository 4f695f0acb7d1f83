package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client
	TrustedProxies []string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Upstream portal settings
	JagritiBaseURL string
	JagritiReferer string
	UserAgent      string
	SearchTimeout  time.Duration
	ListTimeout    time.Duration

	// Fallback dataset for blocked commission listings
	FallbackPath string

	// Search defaults
	DefaultOrderType string

	// Concurrency settings
	MaxConcurrentSearches int

	// API settings
	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "./data/queries.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		JagritiBaseURL:   getEnv("JAGRITI_BASE_URL", "https://e-jagriti.gov.in/services"),
		JagritiReferer:   getEnv("JAGRITI_REFERER", "https://e-jagriti.gov.in/advance-case-search"),
		UserAgent:        getEnv("USER_AGENT", "Mozilla/5.0"),
		FallbackPath:     getEnv("FALLBACK_PATH", "./data/commissions.json"),
		DefaultOrderType: getEnv("DEFAULT_ORDER_TYPE", "DAILY ORDER"),
	}

	cfg.TrustedProxies = splitList(getEnv("TRUSTED_PROXIES", ""))

	searchTimeout, err := strconv.Atoi(getEnv("SEARCH_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_TIMEOUT: %w", err)
	}
	cfg.SearchTimeout = time.Duration(searchTimeout) * time.Second

	// 0 leaves the listing calls on the HTTP client's default
	listTimeout, err := strconv.Atoi(getEnv("LIST_TIMEOUT", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid LIST_TIMEOUT: %w", err)
	}
	cfg.ListTimeout = time.Duration(listTimeout) * time.Second

	cfg.MaxConcurrentSearches, err = strconv.Atoi(getEnv("MAX_CONCURRENT_SEARCHES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_SEARCHES: %w", err)
	}

	cfg.APIRateLimit, err = strconv.Atoi(getEnv("API_RATE_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT: %w", err)
	}

	apiRateWindow, err := strconv.Atoi(getEnv("API_RATE_WINDOW", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_WINDOW: %w", err)
	}
	cfg.APIRateWindow = time.Duration(apiRateWindow) * time.Second

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
