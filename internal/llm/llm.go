package llm

import (
	"context"
	"fmt"
)

// combines an Embedder and a TextGenerator into a single LLM
type CompositeLLM struct {
	Embedder
	TextGenerator
}

// creates a new LLM with auto-configuration from environment variables
func NewLLM(ctx context.Context) (LLM, error) {
	config, err := loadConfig()

	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewLLMWithConfig(ctx, config)
}

// creates a new LLM with explicit configuration
func NewLLMWithConfig(_ context.Context, config *Config) (LLM, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var textGenerator TextGenerator

	switch config.GeneratorProvider {
	case ProviderAnthropic, "":
		textGenerator = NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.GeneratorAPIKey,
			Model:       config.GeneratorModel,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: &config.GeneratorTemperature,
			BaseURL:     config.GeneratorBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", config.GeneratorProvider)
	}

	var embedder Embedder

	switch config.EmbedderProvider {
	case ProviderOpenAI, "":
		if config.EmbedderAPIKey == "" {
			break
		}

		embedder = NewOpenAIEmbedder(OpenAIConfig{
			APIKey:  config.EmbedderAPIKey,
			Model:   config.EmbedderModel,
			BaseURL: config.EmbedderBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", config.EmbedderProvider)
	}

	return &CompositeLLM{
		Embedder:      embedder,
		TextGenerator: textGenerator,
	}, nil
}

// sends a single-turn prompt and returns the answer text
func (c *CompositeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.GenerateText(ctx, TextGenerationRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
