package ratelimit

import (
	"context"
	"fmt"

	"codeberg.org/blogchat/server/internal/errors"
	"codeberg.org/blogchat/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	DefaultRate   = "20-M"
	defaultPrefix = "blogchat_chat"
)

type Config struct {
	Rate     string // ulule format: "<limit>-<S|M|H|D>"
	RedisURL string // empty keeps counters in process memory
	Prefix   string
}

// per-client-IP limiter for one route group
type Limiter struct {
	middleware gin.HandlerFunc
	client     *redis.Client
}

func New(ctx context.Context, cfg Config) (*Limiter, error) {
	if cfg.Rate == "" {
		cfg.Rate = DefaultRate
	}

	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}

	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", cfg.Rate, err)
	}

	l := &Limiter{}

	var store limiter.Store

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}

		l.client = redis.NewClient(opts)

		if err := l.client.Ping(ctx).Err(); err != nil {
			l.client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		store, err = sredis.NewStoreWithOptions(l.client, limiter.StoreOptions{
			Prefix:   cfg.Prefix,
			MaxRetry: 3,
		})
		if err != nil {
			l.client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
			return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: cfg.Prefix})
	}

	l.middleware = mgin.NewMiddleware(
		limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "too many questions, please wait a moment")
		}),
		// a broken store must not take the chat endpoint down with it
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Warn("rate limiter store error, allowing request", "error", err)
			c.Next()
		}),
	)

	logger.Info("chat rate limiter configured",
		"rate", cfg.Rate,
		"store", storeName(cfg.RedisURL),
	)

	return l, nil
}

func (l *Limiter) Middleware() gin.HandlerFunc {
	return l.middleware
}

func (l *Limiter) Close() error {
	if l.client == nil {
		return nil
	}

	return l.client.Close()
}

func storeName(redisURL string) string {
	if redisURL == "" {
		return "memory"
	}

	return "redis"
}
