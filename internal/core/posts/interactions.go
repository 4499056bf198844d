package posts

import (
	"slices"
	"strings"
)

// ToggleLike flips username's membership in the like set.
// The input is never modified; a new snapshot is returned.
// Applying it twice for the same user yields a post equal to the original.
func ToggleLike(p Post, username string) (Post, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return p, NewValidationError("username", "username is required")
	}

	next := p.Clone()
	idx, found := slices.BinarySearch(next.LikedBy, username)
	if found {
		next.LikedBy = slices.Delete(next.LikedBy, idx, idx+1)
	} else {
		next.LikedBy = slices.Insert(next.LikedBy, idx, username)
	}
	next.Likes = len(next.LikedBy)

	return next, nil
}

// AddShare records that username shared the post.
// Shares are not revocable: a repeat share by the same user is a no-op.
func AddShare(p Post, username string) (Post, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return p, NewValidationError("username", "username is required")
	}

	next := p.Clone()
	idx, found := slices.BinarySearch(next.SharedBy, username)
	if found {
		return next, nil
	}
	next.SharedBy = slices.Insert(next.SharedBy, idx, username)
	next.Shares = len(next.SharedBy)

	return next, nil
}
