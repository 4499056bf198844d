// Seed tool: populates the post store with demo posts.
// Engagement is replayed through the post service, so like and share
// counts always match their membership lists. Posts are backdated across
// the last -days days; -reset clears existing posts first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"Vistagram/internal/config"
	"Vistagram/internal/core/captions"
	"Vistagram/internal/core/posts"
	"Vistagram/internal/db"
	"Vistagram/internal/seed"
)

func main() {
	var (
		count     int
		seedValue int64
		maxLikes  int
		maxShares int
		days      int
		reset     bool
	)
	flag.IntVar(&count, "count", 25, "number of posts to create")
	flag.Int64Var(&seedValue, "seed", time.Now().UnixNano(), "random seed (same seed, same data)")
	flag.IntVar(&maxLikes, "max-likes", 500, "maximum likes per post")
	flag.IntVar(&maxShares, "max-shares", 50, "maximum shares per post")
	flag.IntVar(&days, "days", 30, "spread post timestamps over this many past days (0 = now)")
	flag.BoolVar(&reset, "reset", false, "delete all existing posts before seeding")
	flag.Parse()

	if count <= 0 || maxLikes < 0 || maxShares < 0 || days < 0 {
		fmt.Fprintln(os.Stderr, "count must be positive and max-likes / max-shares / days must not be negative")
		os.Exit(2)
	}

	opts := options{
		count:     count,
		seed:      seedValue,
		maxLikes:  maxLikes,
		maxShares: maxShares,
		window:    time.Duration(days) * 24 * time.Hour,
		reset:     reset,
	}
	if err := run(opts); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	count     int
	seed      int64
	maxLikes  int
	maxShares int
	window    time.Duration
	reset     bool
}

func run(opts options) error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx := context.Background()
	start := time.Now()

	conn, repo, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if opts.reset {
		removed, err := repo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		logger.Info("cleared existing posts", "removed", removed)
	}

	var completer captions.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = captions.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}
	captionGenerator := captions.NewGenerator(completer, captions.Config{
		Timeout:           cfg.CaptionTimeout,
		RequestsPerMinute: cfg.CaptionRequestsPerMinute,
	}, logger)

	service := posts.NewPostService(repo, cfg.PublicURL, logger)
	generator := seed.NewGenerator(opts.seed, captionGenerator)
	generator.SetBackdateWindow(opts.window)

	logger.Info("seeding posts",
		"count", opts.count,
		"seed", opts.seed,
		"max_likes", opts.maxLikes,
		"max_shares", opts.maxShares,
		"window", opts.window)

	plans := generator.Plans(ctx, opts.count, opts.maxLikes, opts.maxShares)
	summary, err := seed.NewSeeder(service, generator, logger).Run(ctx, plans)
	if err != nil {
		return err
	}

	logger.Info("seeding complete",
		"posts", len(summary.Posts),
		"likes", summary.Likes,
		"shares", summary.Shares,
		"elapsed", time.Since(start).Truncate(time.Millisecond))

	for i, p := range summary.Posts {
		if i == 3 {
			break
		}
		fmt.Printf("  %d. @%s: %q\n     %s | likes %d | shares %d\n", i+1, p.Username, p.Caption, p.Location, p.Likes, p.Shares)
	}
	return nil
}
