package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8080"
	defaultChatRateLimit  = "20-M"
	defaultRequestTimeout = 90 * time.Second

	defaultCompletionTimeout = 60 * time.Second
	defaultLoggingTimeout    = 5 * time.Second
)

// loads the server configuration. OPENAI_API_KEY is optional: without it
// the server answers from keyword search alone.
func LoadEnvironmentVariables() (*Config, error) {
	cfg := readEnvironment()

	if cfg.AnthropicKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL (or SUPABASE_CONNECTION_STRING) environment variable is required")
	}

	return cfg, nil
}

// loads the ingester configuration; only the database is required up front,
// the embed subcommand checks for its own key
func LoadIngesterVariables() (*Config, error) {
	cfg := readEnvironment()

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL (or SUPABASE_CONNECTION_STRING) environment variable is required")
	}

	return cfg, nil
}

func readEnvironment() *Config {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = os.Getenv("SUPABASE_CONNECTION_STRING")
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	rateLimit := os.Getenv("CHAT_RATE_LIMIT")
	if rateLimit == "" {
		rateLimit = defaultChatRateLimit
	}

	requestTimeout := envDuration("REQUEST_TIMEOUT", defaultRequestTimeout)

	return &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		DatabaseURL:    databaseURL,
		RedisURL:       os.Getenv("REDIS_URL"),
		Environment:    environment,
		Port:           port,
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		ChatRateLimit:  rateLimit,
		RequestTimeout: requestTimeout,

		CompletionTimeout: envDuration("COMPLETION_TIMEOUT", defaultCompletionTimeout),
		LoggingTimeout:    envDuration("LOGGING_TIMEOUT", defaultLoggingTimeout),
	}
}

// parses a Go duration ("45s"), falling back on anything unparsable or non-positive
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

// splits a comma separated env value, dropping blanks
func splitList(raw string) []string {
	var out []string

	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}
