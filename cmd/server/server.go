package main

import (
	"context"
	"fmt"

	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/ratelimit"
	"codeberg.org/blogchat/server/internal/storage"
	"github.com/gin-gonic/gin"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := storage.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	services, err := InitializeServices(ctx, cfg, store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	limiter, err := ratelimit.New(ctx, ratelimit.Config{
		Rate:     cfg.ChatRateLimit,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	server := &Server{
		config:   cfg,
		store:    store,
		services: services,
		limiter:  limiter,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
