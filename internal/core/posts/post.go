package posts

import (
	"fmt"
	"slices"
	"time"
)

const (
	// MaxCaptionLength is the maximum caption length in characters (grapheme clusters)
	MaxCaptionLength = 2200
)

// Post represents a shared image with caption and engagement counters.
//
// LikedBy and SharedBy are sets: each username appears at most once and the
// slices are kept sorted so two posts with the same membership compare equal.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	Caption   string    `json:"caption" db:"caption"`
	Location  string    `json:"location" db:"location"`
	LikedBy   []string  `json:"likedBy" db:"liked_by"`
	SharedBy  []string  `json:"sharedBy" db:"shared_by"`
	Likes     int       `json:"likes" db:"like_count"`
	Shares    int       `json:"shares" db:"share_count"`
}

// Clone returns a deep copy of the post so callers can derive a new snapshot
// without aliasing the membership slices of the original.
func (p Post) Clone() Post {
	out := p
	out.LikedBy = slices.Clone(p.LikedBy)
	out.SharedBy = slices.Clone(p.SharedBy)
	if out.LikedBy == nil {
		out.LikedBy = []string{}
	}
	if out.SharedBy == nil {
		out.SharedBy = []string{}
	}
	return out
}

// IsLikedBy reports whether username is in the post's like set
func (p Post) IsLikedBy(username string) bool {
	_, found := slices.BinarySearch(p.LikedBy, username)
	return found
}

// IsSharedBy reports whether username is in the post's share set
func (p Post) IsSharedBy(username string) bool {
	_, found := slices.BinarySearch(p.SharedBy, username)
	return found
}

// CheckInvariants verifies counters match membership and both sets are
// sorted without duplicates.
func (p Post) CheckInvariants() error {
	if p.Likes != len(p.LikedBy) {
		return fmt.Errorf("%w: likes=%d likedBy=%d", ErrInvariantViolation, p.Likes, len(p.LikedBy))
	}
	if p.Shares != len(p.SharedBy) {
		return fmt.Errorf("%w: shares=%d sharedBy=%d", ErrInvariantViolation, p.Shares, len(p.SharedBy))
	}
	if !isStrictlySorted(p.LikedBy) {
		return fmt.Errorf("%w: likedBy is not a set", ErrInvariantViolation)
	}
	if !isStrictlySorted(p.SharedBy) {
		return fmt.Errorf("%w: sharedBy is not a set", ErrInvariantViolation)
	}
	return nil
}

func isStrictlySorted(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] >= s[i] {
			return false
		}
	}
	return true
}

// NormalizeMembers turns an arbitrary username list (as loaded from storage)
// into the sorted, de-duplicated form the Post type expects.
func NormalizeMembers(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// CreatePostRequest represents input for creating a new post
type CreatePostRequest struct {
	Username string `json:"username"`
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
	Location string `json:"location,omitempty"`

	// CreatedAt backdates the post when set. Zero means now.
	CreatedAt time.Time `json:"-"`
}

// PageInfo describes where a feed window sits within the full post list
type PageInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// FeedResponse is one page of the reverse-chronological timeline
type FeedResponse struct {
	Posts      []*Post  `json:"posts"`
	Pagination PageInfo `json:"pagination"`
}

// LikeResult is returned after toggling a like
type LikeResult struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}

// ShareResult is returned after registering a share
type ShareResult struct {
	ShareURL string `json:"shareUrl"`
	Shares   int    `json:"shares"`
}

// LikersResult lists the usernames that currently like a post
type LikersResult struct {
	LikedBy []string `json:"likedBy"`
}
