package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentVariables_RequiresKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")

	_, err := LoadEnvironmentVariables()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestLoadEnvironmentVariables_EmbeddingKeyOptional(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic")
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Empty(t, cfg.OpenAIKey)
}

func TestLoadEnvironmentVariables_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_CONNECTION_STRING", "postgres://supabase/blog")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("CHAT_RATE_LIMIT", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("COMPLETION_TIMEOUT", "")
	t.Setenv("LOGGING_TIMEOUT", "")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, "postgres://supabase/blog", cfg.DatabaseURL)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultChatRateLimit, cfg.ChatRateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, defaultCompletionTimeout, cfg.CompletionTimeout)
	assert.Equal(t, defaultLoggingTimeout, cfg.LoggingTimeout)
}

func TestLoadEnvironmentVariables_Timeouts(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic")
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("REQUEST_TIMEOUT", "2m")
	t.Setenv("COMPLETION_TIMEOUT", "45s")
	t.Setenv("LOGGING_TIMEOUT", "-1s")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, 45*time.Second, cfg.CompletionTimeout)
	assert.Equal(t, defaultLoggingTimeout, cfg.LoggingTimeout)
}

func TestLoadIngesterVariables_OnlyNeedsDatabase(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")

	cfg, err := LoadIngesterVariables()

	require.NoError(t, err)
	assert.Empty(t, cfg.OpenAIKey)
}

func TestParseSyncFlags(t *testing.T) {
	flags, err := ParseSyncFlags([]string{"--path", "./posts", "--dry-run"})
	require.NoError(t, err)
	assert.Equal(t, SyncFlags{Path: "./posts", DefaultStatus: "published", DryRun: true}, flags)

	_, err = ParseSyncFlags([]string{"--status", "archived"})
	assert.Error(t, err)
}

func TestParseEmbedFlags(t *testing.T) {
	flags, err := ParseEmbedFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultEmbedFlags(), flags)

	_, err = ParseEmbedFlags([]string{"--workers", "0"})
	assert.Error(t, err)

	_, err = ParseEmbedFlags([]string{"--rate", "-1"})
	assert.Error(t, err)
}
