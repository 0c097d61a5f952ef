package config

import (
	"os"
	"strconv"
	"strings"
)

const DefaultAPIURL = "http://localhost:8000"

type Config struct {
	LogLevel string

	// Client.
	APIURL                         string
	SubmitTimeoutSeconds           int
	StrictResponse                 bool
	AnalysisBreakerEnabled         bool
	AnalysisBreakerMinRequests     int
	AnalysisBreakerFailureRatio    float64
	AnalysisBreakerOpenTimeoutSecs int

	// Server.
	APIPort            string
	APIMaxConnections  int
	APIRateLimitRPS    float64
	APIRateLimitBurst  int
	APIMaxInFlight     int
	APIQueueWaitMS     int
	MaxUploadMB        int
	CORSAllowedOrigins []string

	ImageMaxSize   int
	PaletteColors  int
	StyleRulesPath string

	PostgresDSN string

	NATSURL                   string
	NATSSubject               string
	NATSRetryMaxAttempts      int
	NATSRetryInitialBackoffMS int
	NATSRetryMaxBackoffMS     int

	StoragePath string
}

func Load() Config {
	return Config{
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		APIURL:                         strings.TrimRight(mustEnv("STYLE_SAGE_API_URL", DefaultAPIURL), "/"),
		SubmitTimeoutSeconds:           mustEnvInt("SUBMIT_TIMEOUT_SECONDS", 60),
		StrictResponse:                 mustEnvBool("STRICT_RESPONSE", false),
		AnalysisBreakerEnabled:         mustEnvBool("ANALYSIS_BREAKER_ENABLED", false),
		AnalysisBreakerMinRequests:     mustEnvInt("ANALYSIS_BREAKER_MIN_REQUESTS", 5),
		AnalysisBreakerFailureRatio:    mustEnvFloat("ANALYSIS_BREAKER_FAILURE_RATIO", 0.5),
		AnalysisBreakerOpenTimeoutSecs: mustEnvInt("ANALYSIS_BREAKER_OPEN_TIMEOUT_SECONDS", 30),

		APIPort:            mustEnv("API_PORT", "8000"),
		APIMaxConnections:  mustEnvInt("API_MAX_CONNECTIONS", 256),
		APIRateLimitRPS:    mustEnvFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst:  mustEnvInt("API_RATE_LIMIT_BURST", 40),
		APIMaxInFlight:     mustEnvInt("API_MAX_INFLIGHT", 16),
		APIQueueWaitMS:     mustEnvInt("API_QUEUE_WAIT_MS", 250),
		MaxUploadMB:        mustEnvInt("MAX_UPLOAD_MB", 10),
		CORSAllowedOrigins: mustEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		ImageMaxSize:   mustEnvInt("IMAGE_MAX_SIZE", 512),
		PaletteColors:  mustEnvInt("PALETTE_COLORS", 5),
		StyleRulesPath: mustEnv("STYLE_RULES_PATH", ""),

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),

		NATSURL:                   mustEnv("NATS_URL", ""),
		NATSSubject:               mustEnv("NATS_SUBJECT", "analysis.completed"),
		NATSRetryMaxAttempts:      mustEnvInt("NATS_RETRY_MAX_ATTEMPTS", 3),
		NATSRetryInitialBackoffMS: mustEnvInt("NATS_RETRY_INITIAL_BACKOFF_MS", 100),
		NATSRetryMaxBackoffMS:     mustEnvInt("NATS_RETRY_MAX_BACKOFF_MS", 1000),

		StoragePath: mustEnv("STORAGE_PATH", ""),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
