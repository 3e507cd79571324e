package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/blogchat/server/internal/content"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Client struct {
	pool *pgxpool.Pool
}

// connects with a small pool tuned for a transaction-mode pooler
func NewClient(ctx context.Context, connString string) (*Client, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// hosted poolers allow only a handful of connections, keep ours small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// PgBouncer in transaction mode doesn't support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{pool: pool}, nil
}

func (c *Client) Close() {
	c.pool.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// maps pgvector's length check onto content.ErrDimensionMismatch
func wrapVectorError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(pgErr.Message, "different vector dimensions") {
		return fmt.Errorf("%s: %w: %s", op, content.ErrDimensionMismatch, pgErr.Message)
	}

	if errors.As(err, &pgErr) && strings.Contains(pgErr.Message, "expected") && strings.Contains(pgErr.Message, "dimensions") {
		return fmt.Errorf("%s: %w: %s", op, content.ErrDimensionMismatch, pgErr.Message)
	}

	return fmt.Errorf("%s: %w", op, err)
}
