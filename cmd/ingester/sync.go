package main

import (
	"context"
	"fmt"
	"io"

	"codeberg.org/blogchat/server/internal/config"
	"codeberg.org/blogchat/server/internal/content"
	"codeberg.org/blogchat/server/internal/logger"
)

type postUpserter interface {
	UpsertDocuments(ctx context.Context, docs []*content.Document) (inserted, updated int, err error)
}

type SyncReport struct {
	Parsed   int
	Failed   int
	Inserted int
	Updated  int
}

// parses every post under flags.Path and upserts them in one transaction.
// a nil store is only valid for a dry run.
func SyncPosts(ctx context.Context, store postUpserter, flags config.SyncFlags, out io.Writer) (SyncReport, error) {
	var report SyncReport

	status, err := content.ParseStatus(flags.DefaultStatus)
	if err != nil {
		return report, fmt.Errorf("default status %q: %w", flags.DefaultStatus, err)
	}

	logger.Info("starting post sync", "path", flags.Path, "default_status", status, "dry_run", flags.DryRun)

	docs, parseErrs, err := content.LoadDir(flags.Path, status)
	if err != nil {
		return report, err
	}

	for _, perr := range parseErrs {
		logger.Warn("skipping post", "error", perr)
	}

	report.Parsed = len(docs)
	report.Failed = len(parseErrs)

	if err := checkUniqueSlugs(docs); err != nil {
		return report, err
	}

	if flags.DryRun {
		for _, d := range docs {
			fmt.Fprintf(out, "%-40s %-10s %5d words %3d min  %s\n", d.Slug, d.Status, d.WordCount, d.ReadingTime, d.Title) //nolint:errcheck
		}

		fmt.Fprintf(out, "%d posts parsed, %d skipped (dry run, nothing written)\n", report.Parsed, report.Failed) //nolint:errcheck

		return report, nil
	}

	if store == nil {
		return report, fmt.Errorf("no store configured")
	}

	if len(docs) == 0 {
		logger.Warn("no posts found", "path", flags.Path)
		return report, nil
	}

	report.Inserted, report.Updated, err = store.UpsertDocuments(ctx, docs)
	if err != nil {
		return report, fmt.Errorf("failed to upsert posts: %w", err)
	}

	logger.Info("post sync complete",
		"parsed", report.Parsed,
		"skipped", report.Failed,
		"inserted", report.Inserted,
		"updated", report.Updated,
	)

	return report, nil
}

// two files resolving to one slug would silently overwrite each other
func checkUniqueSlugs(docs []*content.Document) error {
	seen := make(map[string]string, len(docs))

	for _, d := range docs {
		if prev, ok := seen[d.Slug]; ok {
			return fmt.Errorf("duplicate slug %q for %q and %q", d.Slug, prev, d.Title)
		}

		seen[d.Slug] = d.Title
	}

	return nil
}
