package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIEmbedder_GenerateEmbeddings(t *testing.T) {
	var gotAuth string
	var gotReq embeddingRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		// out of order on purpose
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0.3,0.4]},{"index":0,"embedding":[0.1,0.2]}],"model":"text-embedding-3-small"}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})

	vecs, err := e.GenerateEmbeddings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, defaultOpenAIModel, gotReq.Model)
	assert.Equal(t, []string{"a", "b"}, gotReq.Input)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vecs)
}

func TestOpenAIEmbedder_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	_, err := e.GenerateEmbedding(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIEmbedder_Dimensions(t *testing.T) {
	assert.Equal(t, 1536, NewOpenAIEmbedder(OpenAIConfig{}).Dimensions())
	assert.Equal(t, 3072, NewOpenAIEmbedder(OpenAIConfig{Model: "text-embedding-3-large"}).Dimensions())
	assert.Equal(t, 1536, NewOpenAIEmbedder(OpenAIConfig{Model: "some-new-model"}).Dimensions())
}

func TestAnthropicGenerator_GenerateText(t *testing.T) {
	var gotReq messagesRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"  Grounded answer.  "}],"usage":{"input_tokens":12,"output_tokens":3}}`))
	}))
	defer srv.Close()

	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "sk-ant", BaseURL: srv.URL})

	resp, err := g.GenerateText(context.Background(), TextGenerationRequest{
		Messages: []Message{{Role: "user", Content: "question"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Grounded answer.", resp.Text)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, defaultGeneratorModel, gotReq.Model)
	assert.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
}

func TestAnthropicGenerator_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "k", BaseURL: srv.URL})

	_, err := g.GenerateText(context.Background(), TextGenerationRequest{
		Messages: []Message{{Role: "user", Content: "q"}},
	})
	assert.Error(t, err)
}

func TestCompositeLLM_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "the prompt", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer srv.Close()

	l, err := NewLLMWithConfig(context.Background(), &Config{
		GeneratorProvider: ProviderAnthropic,
		GeneratorAPIKey:   "k",
		GeneratorBaseURL:  srv.URL,
		EmbedderProvider:  ProviderOpenAI,
		EmbedderAPIKey:    "k",
	})
	require.NoError(t, err)

	out, err := l.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestNewLLMWithConfig_UnsupportedProvider(t *testing.T) {
	_, err := NewLLMWithConfig(context.Background(), &Config{GeneratorProvider: "cohere"})
	assert.Error(t, err)

	_, err = NewLLMWithConfig(context.Background(), nil)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	t.Setenv("GENERATOR_MAX_TOKENS", "512")
	t.Setenv("GENERATOR_MODEL", "")
	t.Setenv("EMBEDDER_MODEL", "")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.GeneratorMaxTokens)
	assert.Equal(t, defaultGeneratorModel, cfg.GeneratorModel)
	assert.Equal(t, defaultOpenAIModel, cfg.EmbedderModel)

	t.Setenv("OPENAI_API_KEY", "")
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.EmbedderAPIKey)

	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestNewLLMWithConfig_NoEmbedderKey(t *testing.T) {
	l, err := NewLLMWithConfig(context.Background(), &Config{
		GeneratorProvider: ProviderAnthropic,
		GeneratorAPIKey:   "k",
		EmbedderProvider:  ProviderOpenAI,
	})
	require.NoError(t, err)

	composite, ok := l.(*CompositeLLM)
	require.True(t, ok)
	assert.Nil(t, composite.Embedder)
}

func TestAnthropicGenerator_Temperature(t *testing.T) {
	var temps []float32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		temp, ok := req["temperature"].(float64)
		require.True(t, ok, "temperature must always be sent")
		temps = append(temps, float32(temp))

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	}))
	defer srv.Close()

	zero := float32(0)
	req := TextGenerationRequest{Messages: []Message{{Role: "user", Content: "q"}}}

	_, err := NewAnthropicGenerator(AnthropicConfig{APIKey: "k", BaseURL: srv.URL, Temperature: &zero}).GenerateText(context.Background(), req)
	require.NoError(t, err)

	_, err = NewAnthropicGenerator(AnthropicConfig{APIKey: "k", BaseURL: srv.URL}).GenerateText(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []float32{0, defaultTemperature}, temps)
}
