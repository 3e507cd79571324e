package main

import (
	"context"
	"fmt"

	"codeberg.org/blogchat/server/internal/chat"
	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/llm"
	"codeberg.org/blogchat/server/internal/logger"
	"codeberg.org/blogchat/server/internal/recorder"
	"codeberg.org/blogchat/server/internal/retriever"
	"codeberg.org/blogchat/server/internal/storage"
)

// creates and wires the pipeline components
func InitializeServices(ctx context.Context, cfg *config.Config, store *storage.Client) (*Services, error) {
	llmClient, err := llm.NewLLM(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	embedder := pipelineEmbedder(cfg, llmClient)
	if embedder == nil {
		logger.Warn("OPENAI_API_KEY not set, retrieval runs keyword-only")
	}

	retrieverCfg := retriever.LoadConfig()
	retrieverClient := retriever.New(embedder, store, retrieverCfg)
	rec := recorder.New(store, cfg.LoggingTimeout)
	chatService := chat.New(retrieverClient, llmClient, rec, retrieverCfg.TopK, cfg.CompletionTimeout)

	logger.Info("pipeline configured",
		"top_k", retrieverCfg.TopK,
		"similarity_threshold", retrieverCfg.SimilarityThreshold,
		"vector_limit", retrieverCfg.VectorLimit,
		"keyword_limit", retrieverCfg.KeywordLimit,
		"semantic_search", embedder != nil,
		"completion_timeout", cfg.CompletionTimeout,
	)

	return &Services{
		LLM:       llmClient,
		Retriever: retrieverClient,
		Recorder:  rec,
		Chat:      chatService,
	}, nil
}

// nil without an embedding key; the retriever treats a nil embedder as keyword-only
func pipelineEmbedder(cfg *config.Config, l llm.LLM) retriever.Embedder {
	if cfg.OpenAIKey == "" {
		return nil
	}

	return l
}
