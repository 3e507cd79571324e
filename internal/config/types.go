package config

import "time"

type Config struct {
	OpenAIKey      string
	AnthropicKey   string
	DatabaseURL    string
	RedisURL       string // optional, enables the shared rate limit store
	Environment    string
	Port           string
	AllowedOrigins []string
	ChatRateLimit  string // ulule formatted rate, e.g. "20-M"
	RequestTimeout time.Duration

	CompletionTimeout time.Duration
	LoggingTimeout    time.Duration
}

// flags for the ingester sync subcommand
type SyncFlags struct {
	Path          string
	DefaultStatus string
	DryRun        bool
}

// flags for the ingester embed subcommand
type EmbedFlags struct {
	Workers   int
	RateLimit float64 // embedding requests per second
	Limit     int     // 0 means every document without an embedding
}
