package content

import (
	"errors"
	"time"
)

var (
	// a stored embedding has a different length than the active embedder produces
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrEmptyPost         = errors.New("post has no title and no body")
	ErrEmptySlug         = errors.New("post has no usable slug")
)

// publication state of a post; only published posts are ever retrieved
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}

	return st, nil
}

// a blog post as stored in blog_posts
type Document struct {
	ID      string
	Slug    string
	Title   string
	Summary string
	Content string

	// nil until the embed job has run for this post
	Embedding []float32

	PrimaryTopic         string
	SecondaryTopics      []string
	Tags                 []string
	TargetAudience       string
	DifficultyLevel      int
	PrerequisiteConcepts []string
	EstimatedValue       string

	HasCodeExamples  bool
	HasImages        bool
	HasExternalLinks bool
	WordCount        int
	ReadingTime      int // minutes
	PublishedDate    *time.Time

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// a document returned by vector search with its cosine similarity
type ScoredDocument struct {
	Document
	Similarity float32
}

// restricts keyword search
type Filters struct {
	Status Status
}

// facts derived from a post body during sync
type Metadata struct {
	HasCodeExamples  bool
	HasImages        bool
	HasExternalLinks bool
	WordCount        int
	ReadingTime      int
}
