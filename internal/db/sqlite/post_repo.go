package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"Vistagram/internal/core/posts"
)

type sqlitePostRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostRepository creates a new SQLite post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &sqlitePostRepo{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const postColumns = `
	id, username, image_url, caption, location,
	like_count, share_count, liked_by, shared_by,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var post posts.Post
	var likedJSON, sharedJSON string
	var createdNS, updatedNS int64

	err := row.Scan(
		&post.ID, &post.Username, &post.ImageURL, &post.Caption, &post.Location,
		&post.Likes, &post.Shares, &likedJSON, &sharedJSON,
		&createdNS, &updatedNS,
	)
	if err != nil {
		return nil, err
	}

	var likedBy, sharedBy []string
	if err := json.Unmarshal([]byte(likedJSON), &likedBy); err != nil {
		return nil, fmt.Errorf("failed to decode liked_by: %w", err)
	}
	if err := json.Unmarshal([]byte(sharedJSON), &sharedBy); err != nil {
		return nil, fmt.Errorf("failed to decode shared_by: %w", err)
	}

	post.LikedBy = posts.NormalizeMembers(likedBy)
	post.SharedBy = posts.NormalizeMembers(sharedBy)
	post.CreatedAt = time.Unix(0, createdNS).UTC()
	post.UpdatedAt = time.Unix(0, updatedNS).UTC()
	return &post, nil
}

func encodeMembers(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a new post
func (r *sqlitePostRepo) Create(ctx context.Context, post *posts.Post) error {
	likedJSON, err := encodeMembers(post.LikedBy)
	if err != nil {
		return fmt.Errorf("failed to encode liked_by: %w", err)
	}
	sharedJSON, err := encodeMembers(post.SharedBy)
	if err != nil {
		return fmt.Errorf("failed to encode shared_by: %w", err)
	}

	query := `
		INSERT INTO posts (
			id, username, image_url, caption, location,
			like_count, share_count, liked_by, shared_by,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.Username, post.ImageURL, post.Caption, post.Location,
		post.Likes, post.Shares, likedJSON, sharedJSON,
		post.CreatedAt.UnixNano(), post.UpdatedAt.UnixNano(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("post already exists: %s", post.ID)
		}
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return posts.NewValidationError("post", "post violates storage constraints")
		}
		return fmt.Errorf("failed to insert post: %w", classifyError(err))
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *sqlitePostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by ID: %w", classifyError(err))
	}
	return post, nil
}

// ListRecent returns a window of posts ordered newest first plus the total count
func (r *sqlitePostRepo) ListRecent(ctx context.Context, offset, limit int) ([]*posts.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", classifyError(err))
	}

	if offset >= total {
		return []*posts.Post{}, total, nil
	}

	query := `SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", classifyError(err))
	}
	defer func() { _ = rows.Close() }()

	result := make([]*posts.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating posts: %w", classifyError(err))
	}

	return result, total, nil
}

// ApplyMutation reads, mutates and writes a post inside one immediate
// transaction, so mutations never interleave.
func (r *sqlitePostRepo) ApplyMutation(ctx context.Context, id string, fn posts.Mutation) (*posts.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`

	current, err := scanPost(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read post: %w", classifyError(err))
	}

	next, changed, err := posts.Mutate(*current, fn, r.now())
	if err != nil {
		return nil, err
	}

	if changed {
		likedJSON, err := encodeMembers(next.LikedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to encode liked_by: %w", err)
		}
		sharedJSON, err := encodeMembers(next.SharedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to encode shared_by: %w", err)
		}

		update := `
			UPDATE posts
			SET like_count = ?, share_count = ?,
				liked_by = ?, shared_by = ?,
				updated_at = ?
			WHERE id = ?
		`
		if _, err := tx.ExecContext(ctx, update,
			next.Likes, next.Shares, likedJSON, sharedJSON,
			next.UpdatedAt.UnixNano(), id,
		); err != nil {
			return nil, fmt.Errorf("failed to update post: %w", classifyError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}

	return &next, nil
}

// Ping checks the database connection
func (r *sqlitePostRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// DeleteAll removes every post
func (r *sqlitePostRepo) DeleteAll(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete posts: %w", classifyError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted posts: %w", err)
	}
	return int(n), nil
}

// classifyError marks connection-level failures as posts.ErrStoreUnavailable
func classifyError(err error) error {
	if err == nil || posts.IsStoreUnavailable(err) {
		return err
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", posts.ErrStoreUnavailable, err)
	}
	return err
}
