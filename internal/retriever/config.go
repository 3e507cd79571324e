package retriever

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultTopK                = 5
	defaultSimilarityThreshold = 0.7
	defaultVectorLimit         = 5
	defaultKeywordLimit        = 3
	defaultEmbedTimeout        = 5 * time.Second
	defaultVectorTimeout       = 5 * time.Second
	defaultKeywordTimeout      = 5 * time.Second
)

type Config struct {
	TopK                int
	SimilarityThreshold float32
	VectorLimit         int
	KeywordLimit        int
	EmbedTimeout        time.Duration
	VectorTimeout       time.Duration
	KeywordTimeout      time.Duration
}

func DefaultConfig() Config {
	return Config{
		TopK:                defaultTopK,
		SimilarityThreshold: defaultSimilarityThreshold,
		VectorLimit:         defaultVectorLimit,
		KeywordLimit:        defaultKeywordLimit,
		EmbedTimeout:        defaultEmbedTimeout,
		VectorTimeout:       defaultVectorTimeout,
		KeywordTimeout:      defaultKeywordTimeout,
	}
}

// LoadConfig returns the defaults with any RETRIEVAL_* overrides applied.
// malformed or out-of-range values are ignored.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if val, ok := envInt("RETRIEVAL_TOP_K"); ok && val > 0 {
		cfg.TopK = val
	}

	if str := os.Getenv("RETRIEVAL_SIMILARITY_THRESHOLD"); str != "" {
		if val, err := strconv.ParseFloat(str, 32); err == nil && val >= -1 && val <= 1 {
			cfg.SimilarityThreshold = float32(val)
		}
	}

	if val, ok := envInt("RETRIEVAL_VECTOR_LIMIT"); ok && val > 0 {
		cfg.VectorLimit = val
	}

	if val, ok := envInt("RETRIEVAL_KEYWORD_LIMIT"); ok && val > 0 {
		cfg.KeywordLimit = val
	}

	return cfg
}

// fills zero fields with defaults
func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.TopK <= 0 {
		c.TopK = d.TopK
	}

	if c.VectorLimit <= 0 {
		c.VectorLimit = d.VectorLimit
	}

	if c.KeywordLimit <= 0 {
		c.KeywordLimit = d.KeywordLimit
	}

	if c.EmbedTimeout <= 0 {
		c.EmbedTimeout = d.EmbedTimeout
	}

	if c.VectorTimeout <= 0 {
		c.VectorTimeout = d.VectorTimeout
	}

	if c.KeywordTimeout <= 0 {
		c.KeywordTimeout = d.KeywordTimeout
	}

	return c
}

func envInt(key string) (int, bool) {
	str := os.Getenv(key)
	if str == "" {
		return 0, false
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, false
	}

	return val, true
}
