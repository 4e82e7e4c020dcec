package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port int

	// Trends provider configuration
	Trends TrendsConfig

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// LLM configuration
	LLM LLMConfig

	// Analytics configuration
	Analytics AnalyticsConfig

	// Geo boundary configuration
	GeoBoundaryURL     string
	GeoBoundaryTimeout time.Duration
}

// TrendsConfig holds the fixed query parameters and fetch policy for
// the external trends provider.
type TrendsConfig struct {
	BaseURL      string
	Brands       []string
	Geo          string
	Timeframe    string
	FetchTimeout time.Duration
	CacheTTL     time.Duration
}

// LLMConfig holds LLM service configuration
type LLMConfig struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	Model    string
}

// AnalyticsConfig holds smoothing and spike-detection parameters.
type AnalyticsConfig struct {
	DefaultWindow int // smoothing window when the UI sends none
	MaxWindow     int

	SpikeZScoreThreshold float64 // latest-value z-score above this raises a spike alert
	SpikeMinSamples      int     // baseline needs at least this many observations
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port: getEnvInt("PORT", 8080),

		Trends: TrendsConfig{
			BaseURL:      getEnvOrDefault("TRENDS_BASE_URL", "https://trends.google.com/trends/api"),
			Brands:       getEnvList("BRANDS", []string{"Swiggy", "Zomato", "Blinkit"}),
			Geo:          getEnvOrDefault("TRENDS_GEO", "IN"),
			Timeframe:    getEnvOrDefault("TRENDS_TIMEFRAME", "today 12-m"),
			FetchTimeout: time.Duration(getEnvInt("TRENDS_FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
			CacheTTL:     time.Duration(getEnvInt("TRENDS_CACHE_TTL_HOURS", 24)) * time.Hour,
		},

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "delivery_trends"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "trends"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "trends123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// LLM configuration
		LLM: LLMConfig{
			Enabled:  getEnvOrDefault("LLM_ENABLED", "false") == "true",
			Endpoint: getEnvOrDefault("LLM_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:   getEnvOrDefault("LLM_API_KEY", ""),
			Model:    getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		},

		Analytics: AnalyticsConfig{
			DefaultWindow: getEnvInt("SMOOTHING_DEFAULT_WINDOW", 4),
			MaxWindow:     getEnvInt("SMOOTHING_MAX_WINDOW", 8),

			SpikeZScoreThreshold: getEnvFloat("SPIKE_ZSCORE_THRESHOLD", 2.5),
			SpikeMinSamples:      getEnvInt("SPIKE_MIN_SAMPLES", 12),
		},

		GeoBoundaryURL:     getEnvOrDefault("GEO_BOUNDARY_URL", "https://raw.githubusercontent.com/geohacker/india/master/state/india_state.geojson"),
		GeoBoundaryTimeout: time.Duration(getEnvInt("GEO_BOUNDARY_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable as a string slice
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
