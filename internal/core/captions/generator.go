// Package captions generates short post captions from an image description.
// Generation never fails from the caller's point of view: any problem with
// the completion backend degrades to a fixed fallback caption.
package captions

import (
	"context"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rivo/uniseg"
	"golang.org/x/time/rate"
)

// MaxCaptionLength bounds generated captions (exclusive, in characters)
const MaxCaptionLength = 200

// Config controls the generator's use of its completion backend
type Config struct {
	// Timeout bounds a single completion call
	Timeout time.Duration
	// RequestsPerMinute throttles calls to the backend; 0 means unlimited
	RequestsPerMinute int
	// CacheSize is the number of descriptions whose captions are memoized
	CacheSize int
}

// DefaultConfig returns the generator defaults
func DefaultConfig() Config {
	return Config{
		Timeout:           10 * time.Second,
		RequestsPerMinute: 60,
		CacheSize:         256,
	}
}

// Generator produces captions, preferring the completion backend when present
type Generator struct {
	completer Completer
	cache     *lru.Cache[string, string]
	limiter   *rate.Limiter
	logger    *slog.Logger
	timeout   time.Duration
}

// NewGenerator creates a generator. completer may be nil, in which case
// captions come from the static fallback table.
func NewGenerator(completer Completer, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}

	cache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		// Only fails for non-positive sizes, which are replaced above
		cache, _ = lru.New[string, string](1)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}

	return &Generator{
		completer: completer,
		cache:     cache,
		limiter:   limiter,
		logger:    logger,
		timeout:   cfg.Timeout,
	}
}

// Generate returns a caption for the description. It never fails.
func (g *Generator) Generate(ctx context.Context, description string) string {
	description = strings.TrimSpace(description)

	if g.completer == nil {
		return FallbackCaption(description)
	}

	if cached, ok := g.cache.Get(description); ok {
		return cached
	}

	if !g.limiter.Allow() {
		g.logger.Warn("caption generation throttled, using fallback",
			"description", description)
		return DefaultCaption
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.completer.Complete(callCtx, description)
	if err != nil {
		g.logger.Error("caption generation failed, using fallback",
			"error", err,
			"description", description)
		return DefaultCaption
	}

	caption := sanitize(raw)
	if caption == "" {
		g.logger.Warn("caption generation returned empty text, using fallback",
			"description", description)
		return DefaultCaption
	}

	g.cache.Add(description, caption)
	return caption
}

// sanitize trims whitespace and wrapping quotes and cuts the caption to
// fewer than MaxCaptionLength characters.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"“”`)
	s = strings.TrimSpace(s)

	if uniseg.GraphemeClusterCount(s) < MaxCaptionLength {
		return s
	}

	var b strings.Builder
	count := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() && count < MaxCaptionLength-1 {
		b.WriteString(gr.Str())
		count++
	}
	return strings.TrimSpace(b.String())
}
