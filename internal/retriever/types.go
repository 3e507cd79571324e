package retriever

import (
	"context"
	"errors"

	"codeberg.org/blogchat/server/internal/content"
)

var (
	ErrEmptyQuery  = errors.New("query is empty")
	ErrInvalidTopK = errors.New("top_k must not be negative")

	// both search paths failed; distinct from an empty result
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)

// which search path produced a candidate
type Source string

const (
	SourceVector  Source = "vector"
	SourceKeyword Source = "keyword"
)

// whether both paths contributed to a result
type Mode string

const (
	ModeFull     Mode = "full"
	ModeDegraded Mode = "degraded"
)

// a published document picked for one query. Score is the cosine similarity
// for vector hits and 0 for keyword-only hits.
type Candidate struct {
	content.Document
	Score  float32
	Source Source
}

type Result struct {
	Candidates []Candidate
	Mode       Mode

	VectorCount  int
	KeywordCount int

	// set when the matching path was skipped or failed
	EmbedErr   error
	VectorErr  error
	KeywordErr error
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type Store interface {
	VectorSearch(ctx context.Context, vec []float32, threshold float32, limit int) ([]content.ScoredDocument, error)
	KeywordSearch(ctx context.Context, query string, filters content.Filters, limit int) ([]content.Document, error)
}
