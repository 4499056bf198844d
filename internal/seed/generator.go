// Package seed generates demo posts and engagement for a fresh database.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"Vistagram/internal/core/posts"
)

// maxUsernameSuffix bounds the numeric suffix of generated usernames (1..999)
const maxUsernameSuffix = 999

// DefaultBackdateWindow is how far back seeded posts are spread
const DefaultBackdateWindow = 30 * 24 * time.Hour

// Captioner produces a caption for an image description
type Captioner interface {
	Generate(ctx context.Context, description string) string
}

// Plan is one post to create together with the engagement to replay on it
type Plan struct {
	Description string
	Request     posts.CreatePostRequest
	Likes       int
	Shares      int
}

// Generator produces deterministic demo data from a seeded source
type Generator struct {
	rng      *rand.Rand
	captions Captioner
	now      func() time.Time
	window   time.Duration
}

// NewGenerator creates a generator. The same seed yields the same data.
func NewGenerator(seed int64, captions Captioner) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		captions: captions,
		now:      time.Now,
		window:   DefaultBackdateWindow,
	}
}

// SetBackdateWindow changes how far back post timestamps may fall.
// Zero stamps every post with the current time.
func (g *Generator) SetBackdateWindow(window time.Duration) {
	if window < 0 {
		window = 0
	}
	g.window = window
}

// CreatedAt returns a time up to the backdate window before ref
func (g *Generator) CreatedAt(ref time.Time) time.Time {
	if g.window <= 0 {
		return ref
	}
	return ref.Add(-time.Duration(g.rng.Int63n(int64(g.window))))
}

// Username returns a handle of the form adjective_noun_N
func (g *Generator) Username() string {
	return fmt.Sprintf("%s_%s_%d",
		pick(g.rng, adjectives),
		pick(g.rng, nouns),
		g.rng.Intn(maxUsernameSuffix)+1)
}

// Location returns a city from the location table
func (g *Generator) Location() string {
	return pick(g.rng, locations)
}

// ImageURL returns a remote placeholder image for a random category
func (g *Generator) ImageURL() string {
	return "https://source.unsplash.com/random/800x600/?" + pick(g.rng, imageCategories)
}

// Description returns an image description used to prompt a caption
func (g *Generator) Description() string {
	return pick(g.rng, imageDescriptions)
}

// Audience returns n distinct usernames.
// n is capped at the number of distinct handles the tables can produce.
func (g *Generator) Audience(n int) []string {
	limit := len(adjectives) * len(nouns) * maxUsernameSuffix
	if n > limit {
		n = limit
	}
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		name := g.Username()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Plans produces count posts with up to maxLikes likes and maxShares shares each
func (g *Generator) Plans(ctx context.Context, count, maxLikes, maxShares int) []Plan {
	plans := make([]Plan, 0, count)
	ref := g.now().UTC()
	for i := 0; i < count; i++ {
		description := g.Description()
		caption := description
		if g.captions != nil {
			caption = g.captions.Generate(ctx, description)
		}

		plans = append(plans, Plan{
			Description: description,
			Request: posts.CreatePostRequest{
				Username:  g.Username(),
				ImageURL:  g.ImageURL(),
				Caption:   caption,
				Location:  g.Location(),
				CreatedAt: g.CreatedAt(ref),
			},
			Likes:  intn(g.rng, maxLikes+1),
			Shares: intn(g.rng, maxShares+1),
		})
	}
	return plans
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func intn(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}
