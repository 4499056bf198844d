package posts

import (
	"fmt"
	"slices"
	"time"
)

// Mutate runs fn against a snapshot of current and checks the result before a
// store persists it. Only engagement fields may change: identity, author,
// content and creation time are carried over from current regardless of what
// fn returns. The share set may never shrink.
//
// changed is false when fn left likes and shares as they were, in which case
// stores skip the write.
func Mutate(current Post, fn Mutation, now time.Time) (next Post, changed bool, err error) {
	derived, err := fn(current.Clone())
	if err != nil {
		return current, false, err
	}

	next = current.Clone()
	next.LikedBy = NormalizeMembers(derived.LikedBy)
	next.SharedBy = NormalizeMembers(derived.SharedBy)
	next.Likes = derived.Likes
	next.Shares = derived.Shares

	if err := next.CheckInvariants(); err != nil {
		return current, false, err
	}
	for _, u := range current.SharedBy {
		if !next.IsSharedBy(u) {
			return current, false, fmt.Errorf("%w: share by %q was revoked", ErrInvariantViolation, u)
		}
	}

	if slices.Equal(next.LikedBy, current.LikedBy) && slices.Equal(next.SharedBy, current.SharedBy) {
		return current, false, nil
	}

	next.UpdatedAt = now
	return next, true, nil
}
