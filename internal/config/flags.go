package config

import (
	"flag"
	"fmt"
)

const (
	defaultPostsPath      = "./src/posts"
	defaultEmbedWorkers   = 4
	defaultEmbedRateLimit = 10 // one request per 100ms
)

// parses CLI flags for the sync subcommand
func ParseSyncFlags(args []string) (SyncFlags, error) {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	path := fs.String("path", defaultPostsPath, "path to the markdown posts directory")
	status := fs.String("status", "published", "status for posts whose frontmatter has none (draft|published)")
	dryRun := fs.Bool("dry-run", false, "parse posts and print them without writing to the database")

	if err := fs.Parse(args); err != nil {
		return SyncFlags{}, err
	}

	if *status != "draft" && *status != "published" {
		return SyncFlags{}, fmt.Errorf("invalid --status %q: want draft or published", *status)
	}

	return SyncFlags{Path: *path, DefaultStatus: *status, DryRun: *dryRun}, nil
}

// parses CLI flags for the embed subcommand
func ParseEmbedFlags(args []string) (EmbedFlags, error) {
	fs := flag.NewFlagSet("embed", flag.ContinueOnError)
	workers := fs.Int("workers", defaultEmbedWorkers, "number of concurrent embedding requests")
	rateLimit := fs.Float64("rate", defaultEmbedRateLimit, "maximum embedding requests per second")
	limit := fs.Int("limit", 0, "maximum number of documents to embed (0 = all)")

	if err := fs.Parse(args); err != nil {
		return EmbedFlags{}, err
	}

	if *workers < 1 {
		return EmbedFlags{}, fmt.Errorf("--workers must be at least 1")
	}

	if *rateLimit <= 0 {
		return EmbedFlags{}, fmt.Errorf("--rate must be positive")
	}

	return EmbedFlags{Workers: *workers, RateLimit: *rateLimit, Limit: *limit}, nil
}

// returns default flags for the sync subcommand
func DefaultSyncFlags() SyncFlags {
	return SyncFlags{Path: defaultPostsPath, DefaultStatus: "published"}
}

// returns default flags for the embed subcommand
func DefaultEmbedFlags() EmbedFlags {
	return EmbedFlags{Workers: defaultEmbedWorkers, RateLimit: defaultEmbedRateLimit}
}
