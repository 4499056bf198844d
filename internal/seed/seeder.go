package seed

import (
	"context"
	"fmt"
	"log/slog"

	"Vistagram/internal/core/posts"
)

// Summary reports what a seeding run created
type Summary struct {
	Posts  []*posts.Post
	Likes  int
	Shares int
}

// Seeder writes plans through the post service so every invariant the
// service enforces also holds for seeded data.
type Seeder struct {
	service   posts.Service
	generator *Generator
	logger    *slog.Logger
}

// NewSeeder creates a seeder. The generator supplies liker and sharer names.
func NewSeeder(service posts.Service, generator *Generator, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		service:   service,
		generator: generator,
		logger:    logger,
	}
}

// Run creates every planned post and replays its likes and shares
func (s *Seeder) Run(ctx context.Context, plans []Plan) (*Summary, error) {
	summary := &Summary{Posts: make([]*posts.Post, 0, len(plans))}

	for i, plan := range plans {
		created, err := s.service.CreatePost(ctx, plan.Request)
		if err != nil {
			return summary, fmt.Errorf("failed to create post %d: %w", i+1, err)
		}

		for _, username := range s.generator.Audience(plan.Likes) {
			if _, err := s.service.ToggleLike(ctx, created.ID, username); err != nil {
				return summary, fmt.Errorf("failed to like post %s: %w", created.ID, err)
			}
			summary.Likes++
		}

		for _, username := range s.generator.Audience(plan.Shares) {
			if _, err := s.service.AddShare(ctx, created.ID, username); err != nil {
				return summary, fmt.Errorf("failed to share post %s: %w", created.ID, err)
			}
			summary.Shares++
		}

		final, err := s.service.GetPost(ctx, created.ID)
		if err != nil {
			return summary, fmt.Errorf("failed to reload post %s: %w", created.ID, err)
		}
		summary.Posts = append(summary.Posts, final)

		s.logger.Debug("seeded post",
			"post_id", final.ID,
			"username", final.Username,
			"likes", final.Likes,
			"shares", final.Shares)
	}

	return summary, nil
}
