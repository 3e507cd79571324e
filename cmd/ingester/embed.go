package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/content"
	"codeberg.org/blogchat/server/internal/logger"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"
)

type embeddingStore interface {
	ListMissingEmbeddings(ctx context.Context, limit int) ([]content.Document, error)
	UpdateEmbedding(ctx context.Context, id string, vec []float32) error
}

type embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type EmbedReport struct {
	Total    int
	Embedded int
	Failed   int
}

// embeds every post without a vector. per-post failures are logged and counted.
func EmbedMissing(ctx context.Context, store embeddingStore, emb embedder, flags config.EmbedFlags) (EmbedReport, error) {
	var report EmbedReport

	docs, err := store.ListMissingEmbeddings(ctx, flags.Limit)
	if err != nil {
		return report, err
	}

	report.Total = len(docs)
	logger.Info("generating embeddings", "posts", report.Total, "workers", flags.Workers, "rate", flags.RateLimit)

	if report.Total == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(flags.Workers)
	if err != nil {
		return report, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	limiter := rate.NewLimiter(rate.Limit(flags.RateLimit), 1)

	var embedded, failed atomic.Int64
	var wg sync.WaitGroup

	for _, doc := range docs {
		wg.Add(1)

		submitErr := pool.Submit(func() {
			defer wg.Done()

			if err := embedOne(ctx, store, emb, limiter, doc); err != nil {
				failed.Add(1)
				logger.Warn("failed to embed post", "slug", doc.Slug, "id", doc.ID, "error", err)
				return
			}

			embedded.Add(1)
			logger.Debug("embedded post", "slug", doc.Slug)
		})

		if submitErr != nil {
			wg.Done()
			failed.Add(1)
			logger.Warn("failed to schedule post", "slug", doc.Slug, "error", submitErr)
		}
	}

	wg.Wait()

	report.Embedded = int(embedded.Load())
	report.Failed = int(failed.Load())

	logger.Info("embedding generation complete",
		"embedded", report.Embedded,
		"failed", report.Failed,
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	return report, nil
}

func embedOne(ctx context.Context, store embeddingStore, emb embedder, limiter *rate.Limiter, doc content.Document) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	vec, err := emb.GenerateEmbedding(ctx, content.EmbeddingText(&doc))
	if err != nil {
		return err
	}

	if want := emb.Dimensions(); want > 0 && len(vec) != want {
		return fmt.Errorf("%w: got %d, want %d", content.ErrDimensionMismatch, len(vec), want)
	}

	return store.UpdateEmbedding(ctx, doc.ID, vec)
}
