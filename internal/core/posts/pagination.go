package posts

import "math"

const (
	// DefaultPage is used when the caller does not ask for a page
	DefaultPage = 1
	// DefaultLimit is the feed page size when none is requested
	DefaultLimit = 10
	// MaxLimit caps how many posts a single feed page may return
	MaxLimit = 50
)

// Offset returns how many posts precede the given page.
// page and limit must already be validated as positive. Pages too far out to
// address saturate at math.MaxInt, which every store treats as past the end.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Paginate computes pagination metadata for a feed window.
// total is the number of posts in the store, returned is how many posts the
// window for (page, limit) actually contained.
func Paginate(total, page, limit, returned int) (PageInfo, error) {
	if limit <= 0 {
		return PageInfo{}, NewValidationError("limit", "limit must be a positive integer")
	}
	if page <= 0 {
		return PageInfo{}, NewValidationError("page", "page must be a positive integer")
	}
	if total < 0 || returned < 0 {
		return PageInfo{}, NewValidationError("total", "counts must not be negative")
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	offset := Offset(page, limit)

	return PageInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     offset < total && returned < total-offset,
		HasPrev:     page > 1,
	}, nil
}
