package llm

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultGeneratorModel     = "claude-sonnet-4-20250514"
	defaultGeneratorMaxTokens = 1000
)

// loadConfig loads LLM configuration from environment variables
func loadConfig() (*Config, error) {
	// generator configuration
	generatorProvider := Provider(os.Getenv("GENERATOR_PROVIDER"))
	if generatorProvider == "" {
		generatorProvider = ProviderAnthropic // default
	}

	generatorAPIKey := os.Getenv("ANTHROPIC_API_KEY")
	if generatorAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	generatorModel := os.Getenv("GENERATOR_MODEL")
	if generatorModel == "" {
		generatorModel = defaultGeneratorModel
	}

	// embedder configuration
	embedderProvider := Provider(os.Getenv("EMBEDDER_PROVIDER"))
	if embedderProvider == "" {
		embedderProvider = ProviderOpenAI // default
	}

	// optional; without it the LLM has no embedder and retrieval runs keyword-only
	embedderAPIKey := os.Getenv("OPENAI_API_KEY")

	embedderModel := os.Getenv("EMBEDDER_MODEL")
	if embedderModel == "" {
		embedderModel = defaultOpenAIModel
	}

	// generator optional parameters
	generatorMaxTokens := defaultGeneratorMaxTokens
	if maxTokensStr := os.Getenv("GENERATOR_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil && val > 0 {
			generatorMaxTokens = val
		}
	}

	generatorTemperature := float32(defaultTemperature)
	if tempStr := os.Getenv("GENERATOR_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			generatorTemperature = float32(val)
		}
	}

	return &Config{
		GeneratorProvider:    generatorProvider,
		GeneratorAPIKey:      generatorAPIKey,
		GeneratorModel:       generatorModel,
		GeneratorMaxTokens:   generatorMaxTokens,
		GeneratorTemperature: generatorTemperature,
		GeneratorBaseURL:     os.Getenv("ANTHROPIC_BASE_URL"),
		EmbedderProvider:     embedderProvider,
		EmbedderAPIKey:       embedderAPIKey,
		EmbedderModel:        embedderModel,
		EmbedderBaseURL:      os.Getenv("OPENAI_BASE_URL"),
	}, nil
}

// embedder settings alone, for jobs that never call the generator
func EmbedderConfigFromEnv() (OpenAIConfig, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return OpenAIConfig{}, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	return OpenAIConfig{
		APIKey:  apiKey,
		Model:   os.Getenv("EMBEDDER_MODEL"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	}, nil
}
