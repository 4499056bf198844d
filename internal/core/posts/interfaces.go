package posts

import "context"

// Mutation derives a new post snapshot from the current one.
// It must be pure: the store may call it exactly once per ApplyMutation with
// the row it holds locked, and persists whatever it returns.
type Mutation func(current Post) (Post, error)

// Service defines the business logic interface for posts
// Coordinates validation, the interaction rules and the Repository
type Service interface {
	// CreatePost validates and stores a new post with zeroed engagement
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// GetPost returns a single post by ID
	GetPost(ctx context.Context, id string) (*Post, error)

	// ListPosts returns one page of the reverse-chronological feed
	// page and limit of 0 mean "use the default"
	ListPosts(ctx context.Context, page, limit int) (*FeedResponse, error)

	// ToggleLike flips the user's like on a post
	ToggleLike(ctx context.Context, id, username string) (*LikeResult, error)

	// AddShare records a (non-revocable) share of a post by the user
	AddShare(ctx context.Context, id, username string) (*ShareResult, error)

	// GetLikers lists the users that currently like a post
	GetLikers(ctx context.Context, id string) (*LikersResult, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a new post. ID and timestamps are set by the caller.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by its ID
	// Returns ErrNotFound (wrapped in NotFoundError) when absent
	GetByID(ctx context.Context, id string) (*Post, error)

	// ListRecent returns posts ordered newest first, skipping offset posts and
	// returning at most limit, together with the total number of posts.
	// A window past the end is empty, not an error.
	ListRecent(ctx context.Context, offset, limit int) ([]*Post, int, error)

	// ApplyMutation performs one atomic read-modify-write on a single post.
	// Concurrent mutations of the same post are serialized by the store.
	ApplyMutation(ctx context.Context, id string, fn Mutation) (*Post, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error

	// DeleteAll removes every post and reports how many were removed.
	// Used by the seed tool; no API endpoint deletes posts.
	DeleteAll(ctx context.Context) (int, error)
}
