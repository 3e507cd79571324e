package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/blogchat/server/internal/content"
	"codeberg.org/blogchat/server/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// counts reported by `ingester stats`
type PostStats struct {
	Total     int
	Published int
	Draft     int
	Embedded  int
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner, extra ...any) (content.Document, error) {
	var doc content.Document
	var status string

	dest := []any{
		&doc.ID,
		&doc.Slug,
		&doc.Title,
		&doc.Summary,
		&doc.Content,
		&doc.PrimaryTopic,
		&doc.SecondaryTopics,
		&doc.Tags,
		&doc.TargetAudience,
		&doc.DifficultyLevel,
		&doc.PrerequisiteConcepts,
		&doc.EstimatedValue,
		&doc.PublishedDate,
		&doc.ReadingTime,
		&status,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return doc, err
	}

	doc.Status = content.Status(status)

	return doc, nil
}

// published posts whose cosine similarity to vec exceeds threshold, best first
func (c *Client) VectorSearch(ctx context.Context, vec []float32, threshold float32, limit int) ([]content.ScoredDocument, error) {
	rows, err := c.pool.Query(ctx, vectorSearchQuery, pgvector.NewVector(vec), threshold, limit)
	if err != nil {
		return nil, wrapVectorError("failed to execute vector search", err)
	}
	defer rows.Close()

	var results []content.ScoredDocument

	for rows.Next() {
		var similarity float32

		doc, err := scanDocument(rows, &similarity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, content.ScoredDocument{Document: doc, Similarity: similarity})
	}

	if err := rows.Err(); err != nil {
		return nil, wrapVectorError("error iterating rows", err)
	}

	return results, nil
}

// case-insensitive substring match on title and content, exact match on tags
func (c *Client) KeywordSearch(ctx context.Context, query string, filters content.Filters, limit int) ([]content.Document, error) {
	status := filters.Status
	if status == "" {
		status = content.StatusPublished
	}

	rows, err := c.pool.Query(ctx, keywordSearchQuery, likePattern(query), query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute keyword search: %w", err)
	}
	defer rows.Close()

	var results []content.Document

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// inserts or updates a post keyed by slug, returning its id and whether it was new
func (c *Client) UpsertDocument(ctx context.Context, doc *content.Document) (string, bool, error) {
	return upsert(ctx, c.pool, doc)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func upsert(ctx context.Context, q queryRower, doc *content.Document) (string, bool, error) {
	if doc.Slug == "" {
		return "", false, fmt.Errorf("document slug is required")
	}

	var id string
	var inserted bool

	err := q.QueryRow(ctx, upsertPostQuery,
		doc.Slug,
		doc.Title,
		doc.Summary,
		doc.Content,
		doc.PrimaryTopic,
		nonNil(doc.SecondaryTopics),
		nonNil(doc.Tags),
		doc.TargetAudience,
		doc.DifficultyLevel,
		nonNil(doc.PrerequisiteConcepts),
		doc.EstimatedValue,
		doc.HasCodeExamples,
		doc.HasImages,
		doc.HasExternalLinks,
		doc.WordCount,
		doc.ReadingTime,
		doc.PublishedDate,
		string(doc.Status),
	).Scan(&id, &inserted)

	if err != nil {
		return "", false, fmt.Errorf("failed to upsert post %q: %w", doc.Slug, err)
	}

	doc.ID = id

	return id, inserted, nil
}

// upserts every document in one transaction
func (c *Client) UpsertDocuments(ctx context.Context, docs []*content.Document) (inserted, updated int, err error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// defer rollback - will be no-op if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	for _, doc := range docs {
		_, isNew, err := upsert(ctx, tx, doc)
		if err != nil {
			return 0, 0, err
		}

		if isNew {
			inserted++
		} else {
			updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, updated, nil
}

// posts without an embedding, oldest first; limit 0 means all
func (c *Client) ListMissingEmbeddings(ctx context.Context, limit int) ([]content.Document, error) {
	rows, err := c.pool.Query(ctx, missingEmbeddingsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts without embeddings: %w", err)
	}
	defer rows.Close()

	var results []content.Document

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

func (c *Client) UpdateEmbedding(ctx context.Context, id string, vec []float32) error {
	tag, err := c.pool.Exec(ctx, updateEmbeddingQuery, id, pgvector.NewVector(vec))
	if err != nil {
		return wrapVectorError("failed to update embedding", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}

	return nil
}

func (c *Client) GetPostStats(ctx context.Context) (PostStats, error) {
	var s PostStats

	err := c.pool.QueryRow(ctx, postStatsQuery).Scan(&s.Total, &s.Published, &s.Draft, &s.Embedded)
	if err != nil {
		return s, fmt.Errorf("failed to get post stats: %w", err)
	}

	return s, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// wraps a raw query as an ILIKE substring pattern with wildcards escaped
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
