package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

type postService struct {
	repo      Repository
	logger    *slog.Logger
	now       func() time.Time
	publicURL string
}

// NewPostService creates a new post service
// publicURL is the externally visible origin used to build share links
// (e.g. "https://vistagram.example"); it may be empty for relative links.
func NewPostService(repo Repository, publicURL string, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:      repo,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost validates input and stores a new post with empty engagement
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Caption = strings.TrimSpace(req.Caption)
	req.Location = strings.TrimSpace(req.Location)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	createdAt := now
	if !req.CreatedAt.IsZero() {
		if req.CreatedAt.After(now) {
			return nil, NewValidationError("createdAt", "createdAt must not be in the future")
		}
		createdAt = req.CreatedAt.UTC()
	}

	post := &Post{
		ID:        uuid.NewString(),
		Username:  req.Username,
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		Location:  req.Location,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		LikedBy:   []string{},
		SharedBy:  []string{},
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			"error", err,
			"username", post.Username)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("post created",
		"post_id", post.ID,
		"username", post.Username)

	return post, nil
}

func validateCreateRequest(req CreatePostRequest) error {
	if req.Username == "" {
		return NewValidationError("username", "username is required")
	}
	if req.ImageURL == "" {
		return NewValidationError("image", "image is required")
	}
	return ValidateCaption(req.Caption)
}

// ValidateCaption checks a trimmed caption is 1 to MaxCaptionLength characters
func ValidateCaption(caption string) error {
	if caption == "" {
		return NewValidationError("caption", "caption is required")
	}
	if uniseg.GraphemeClusterCount(caption) > MaxCaptionLength {
		return NewValidationError("caption", fmt.Sprintf("caption must not exceed %d characters", MaxCaptionLength))
	}
	return nil
}

// GetPost returns a single post
func (s *postService) GetPost(ctx context.Context, id string) (*Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewValidationError("id", "post id is required")
	}
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListPosts returns one page of the timeline, newest first
func (s *postService) ListPosts(ctx context.Context, page, limit int) (*FeedResponse, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 0 {
		return nil, NewValidationError("page", "page must be a positive integer")
	}
	if limit < 0 {
		return nil, NewValidationError("limit", "limit must be a positive integer")
	}
	if limit > MaxLimit {
		return nil, NewValidationError("limit", fmt.Sprintf("limit must not exceed %d", MaxLimit))
	}

	posts, total, err := s.repo.ListRecent(ctx, Offset(page, limit), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*Post{}
	}

	info, err := Paginate(total, page, limit, len(posts))
	if err != nil {
		return nil, err
	}

	return &FeedResponse{
		Posts:      posts,
		Pagination: info,
	}, nil
}

// ToggleLike flips the user's like and reports the resulting state
func (s *postService) ToggleLike(ctx context.Context, id, username string) (*LikeResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewValidationError("username", "username is required")
	}

	updated, err := s.repo.ApplyMutation(ctx, id, func(current Post) (Post, error) {
		return ToggleLike(current, username)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	liked := updated.IsLikedBy(username)
	s.logger.Debug("like toggled",
		"post_id", id,
		"username", username,
		"liked", liked,
		"likes", updated.Likes)

	return &LikeResult{
		Likes:   updated.Likes,
		IsLiked: liked,
	}, nil
}

// AddShare records a share and returns the share count plus a link to the post
func (s *postService) AddShare(ctx context.Context, id, username string) (*ShareResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewValidationError("username", "username is required")
	}

	updated, err := s.repo.ApplyMutation(ctx, id, func(current Post) (Post, error) {
		return AddShare(current, username)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add share: %w", err)
	}

	s.logger.Debug("post shared",
		"post_id", id,
		"username", username,
		"shares", updated.Shares)

	return &ShareResult{
		Shares:   updated.Shares,
		ShareURL: s.ShareURL(updated.ID),
	}, nil
}

// ShareURL builds the public link for a post
func (s *postService) ShareURL(id string) string {
	return s.publicURL + "/api/posts/" + id
}

// GetLikers lists the users who currently like the post
func (s *postService) GetLikers(ctx context.Context, id string) (*LikersResult, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	likedBy := post.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return &LikersResult{LikedBy: likedBy}, nil
}
