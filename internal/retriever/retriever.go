package retriever

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"codeberg.org/blogchat/server/internal/content"
	"codeberg.org/blogchat/server/internal/logger"
)

type Retriever struct {
	embedder Embedder
	store    Store
	cfg      Config
}

// a nil embedder runs every query in keyword-only mode
func New(embedder Embedder, store Store, cfg Config) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		cfg:      cfg.withDefaults(),
	}
}

func (r *Retriever) Config() Config {
	return r.cfg
}

// Retrieve returns at most topK distinct published candidates for query.
// topK 0 uses the configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Candidate, error) {
	res, err := r.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	return res.Candidates, nil
}

// Search runs the embedding→vector chain and the keyword search concurrently,
// then merges them. It only fails when neither path could reach the store or
// when a stored embedding does not match the embedder's dimensions.
func (r *Retriever) Search(ctx context.Context, query string, topK int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if topK < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
	}

	if topK == 0 {
		topK = r.cfg.TopK
	}

	res := &Result{}

	var vectorResults []content.ScoredDocument
	var keywordResults []content.Document
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		vectorResults, res.EmbedErr, res.VectorErr = r.vectorPath(ctx, query)
	}()

	go func() {
		defer wg.Done()
		keywordResults, res.KeywordErr = r.keywordPath(ctx, query)
	}()

	wg.Wait()

	log := logger.FromContext(ctx)

	if errors.Is(res.EmbedErr, content.ErrDimensionMismatch) || errors.Is(res.VectorErr, content.ErrDimensionMismatch) {
		return nil, errors.Join(res.EmbedErr, res.VectorErr)
	}

	vectorOK := res.EmbedErr == nil && res.VectorErr == nil

	if !vectorOK && res.KeywordErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, errors.Join(res.EmbedErr, res.VectorErr, res.KeywordErr))
	}

	res.Mode = ModeFull
	if !vectorOK || res.KeywordErr != nil {
		res.Mode = ModeDegraded
		log.Warn("retrieval degraded",
			"embed_error", res.EmbedErr,
			"vector_error", res.VectorErr,
			"keyword_error", res.KeywordErr,
		)
	}

	res.Candidates = merge(vectorResults, keywordResults, topK)

	for _, c := range res.Candidates {
		if c.Source == SourceVector {
			res.VectorCount++
		} else {
			res.KeywordCount++
		}
	}

	log.Debug("retrieval complete",
		"mode", res.Mode,
		"candidates", len(res.Candidates),
		"vector", res.VectorCount,
		"keyword", res.KeywordCount,
	)

	return res, nil
}

// embeds the query then searches by similarity, each under its own timeout
func (r *Retriever) vectorPath(ctx context.Context, query string) (docs []content.ScoredDocument, embedErr, vectorErr error) {
	if r.embedder == nil {
		return nil, errors.New("no embedder configured"), nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, r.cfg.EmbedTimeout)
	vec, err := r.embedder.GenerateEmbedding(embedCtx, query)
	cancel()

	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err), nil
	}

	if want := r.embedder.Dimensions(); want > 0 && len(vec) != want {
		return nil, fmt.Errorf("%w: query embedding has %d dimensions, want %d", content.ErrDimensionMismatch, len(vec), want), nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.cfg.VectorTimeout)
	defer cancel()

	docs, err = r.store.VectorSearch(searchCtx, vec, r.cfg.SimilarityThreshold, r.cfg.VectorLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("vector search failed: %w", err)
	}

	return docs, nil, nil
}

func (r *Retriever) keywordPath(ctx context.Context, query string) ([]content.Document, error) {
	searchCtx, cancel := context.WithTimeout(ctx, r.cfg.KeywordTimeout)
	defer cancel()

	docs, err := r.store.KeywordSearch(searchCtx, query, content.Filters{Status: content.StatusPublished}, r.cfg.KeywordLimit)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	return docs, nil
}

// merge dedupes by document id. vector hits go first by descending similarity,
// keyword hits follow in store order; a document found by both keeps its vector score.
func merge(vector []content.ScoredDocument, keyword []content.Document, topK int) []Candidate {
	sorted := make([]content.ScoredDocument, len(vector))
	copy(sorted, vector)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})

	seen := make(map[string]struct{}, len(sorted)+len(keyword))
	merged := make([]Candidate, 0, len(sorted)+len(keyword))

	for _, d := range sorted {
		if !eligible(d.Document, seen) {
			continue
		}

		seen[d.ID] = struct{}{}
		merged = append(merged, Candidate{Document: d.Document, Score: d.Similarity, Source: SourceVector})
	}

	for _, d := range keyword {
		if !eligible(d, seen) {
			continue
		}

		seen[d.ID] = struct{}{}
		merged = append(merged, Candidate{Document: d, Score: 0, Source: SourceKeyword})
	}

	if len(merged) > topK {
		merged = merged[:topK]
	}

	return merged
}

// the store filters by status too, but the two query paths don't share that contract
func eligible(d content.Document, seen map[string]struct{}) bool {
	if d.ID == "" || d.Status != content.StatusPublished {
		return false
	}

	_, dup := seen[d.ID]

	return !dup
}
