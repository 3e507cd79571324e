package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/llm"
	"codeberg.org/blogchat/server/internal/logger"
	"codeberg.org/blogchat/server/internal/storage"
)

func usage() {
	fmt.Println("Usage: ingester <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  sync   - parse markdown posts and upsert them by slug")
	fmt.Println("  embed  - compute embeddings for posts that have none")
	fmt.Println("  all    - sync, then embed")
	fmt.Println("  stats  - print post and embedding counts")
	fmt.Println("\nsync options:")
	fmt.Println("  --path <path>      - posts directory (default ./src/posts)")
	fmt.Println("  --status <status>  - status for posts without one (draft|published)")
	fmt.Println("  --dry-run          - print parsed posts without writing")
	fmt.Println("\nembed options:")
	fmt.Println("  --workers <n>      - concurrent embedding requests (default 4)")
	fmt.Println("  --rate <n>         - requests per second (default 10)")
	fmt.Println("  --limit <n>        - embed at most n posts (default all)")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "sync":
		flags, err := config.ParseSyncFlags(args)
		if err != nil {
			logger.Fatal("invalid sync flags", "error", err)
		}

		if flags.DryRun {
			if _, err := SyncPosts(ctx, nil, flags, os.Stdout); err != nil {
				logger.Fatal("failed to sync posts", "error", err)
			}
			return
		}

		store := connect(ctx)
		defer store.Close()

		if _, err := SyncPosts(ctx, store, flags, os.Stdout); err != nil {
			logger.Fatal("failed to sync posts", "error", err)
		}

	case "embed":
		flags, err := config.ParseEmbedFlags(args)
		if err != nil {
			logger.Fatal("invalid embed flags", "error", err)
		}

		// connect loads .env, so it runs before the embedder reads its key
		store := connect(ctx)
		defer store.Close()

		embedder := newEmbedder()

		if _, err := EmbedMissing(ctx, store, embedder, flags); err != nil {
			logger.Fatal("failed to generate embeddings", "error", err)
		}

	case "all":
		// connect loads .env, so it runs before the embedder reads its key
		store := connect(ctx)
		defer store.Close()

		embedder := newEmbedder()

		logger.Info("syncing posts and generating embeddings")

		if _, err := SyncPosts(ctx, store, config.DefaultSyncFlags(), os.Stdout); err != nil {
			logger.Fatal("failed to sync posts", "error", err)
		}

		if _, err := EmbedMissing(ctx, store, embedder, config.DefaultEmbedFlags()); err != nil {
			logger.Fatal("failed to generate embeddings", "error", err)
		}

	case "stats":
		store := connect(ctx)
		defer store.Close()

		stats, err := store.GetPostStats(ctx)
		if err != nil {
			logger.Fatal("failed to read stats", "error", err)
		}

		fmt.Printf("posts: %d (published %d, draft %d)\n", stats.Total, stats.Published, stats.Draft)
		fmt.Printf("embedded: %d, missing: %d\n", stats.Embedded, stats.Total-stats.Embedded)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func connect(ctx context.Context) *storage.Client {
	cfg, err := config.LoadIngesterVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	store, err := storage.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	logger.Info("connected to database")

	return store
}

func newEmbedder() *llm.OpenAIEmbedder {
	cfg, err := llm.EmbedderConfigFromEnv()
	if err != nil {
		logger.Fatal("failed to configure embedder", "error", err)
	}

	return llm.NewOpenAIEmbedder(cfg)
}
