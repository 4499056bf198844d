package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Vistagram/internal/core/posts"
)

type postgresPostRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{
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
	var likedBy, sharedBy []string

	err := row.Scan(
		&post.ID, &post.Username, &post.ImageURL, &post.Caption, &post.Location,
		&post.Likes, &post.Shares, pq.Array(&likedBy), pq.Array(&sharedBy),
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.LikedBy = posts.NormalizeMembers(likedBy)
	post.SharedBy = posts.NormalizeMembers(sharedBy)
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	return &post, nil
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (
			id, username, image_url, caption, location,
			like_count, share_count, liked_by, shared_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11
		)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		post.ID, post.Username, post.ImageURL, post.Caption, post.Location,
		post.Likes, post.Shares, pq.Array(nonNil(post.LikedBy)), pq.Array(nonNil(post.SharedBy)),
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("post already exists: %s", post.ID)
		}
		if strings.Contains(err.Error(), "violates check constraint") {
			return posts.NewValidationError("post", "post violates storage constraints")
		}
		return fmt.Errorf("failed to insert post: %w", classifyError(err))
	}

	return nil
}

// GetByID retrieves a post by its UUID
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	// A malformed UUID can never match a row; avoid the cast error from Postgres.
	if _, err := uuid.Parse(id); err != nil {
		return nil, posts.NewNotFoundError(id)
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by ID: %w", classifyError(err))
	}

	return post, nil
}

// ListRecent returns a window of posts ordered newest first plus the total count.
// Both reads share one snapshot so the count always matches the window.
func (r *postgresPostRepo) ListRecent(ctx context.Context, offset, limit int) ([]*posts.Post, int, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}
	defer func() { _ = tx.Rollback() }()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", classifyError(err))
	}

	if offset >= total {
		return []*posts.Post{}, total, nil
	}

	query := `SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := tx.QueryContext(ctx, query, limit, offset)
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

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}

	return result, total, nil
}

// ApplyMutation locks the post row, applies fn and writes the result back in
// one transaction. Concurrent callers on the same ID queue on the row lock.
func (r *postgresPostRepo) ApplyMutation(ctx context.Context, id string, fn posts.Mutation) (*posts.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, posts.NewNotFoundError(id)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Printf("Failed to rollback transaction: %v", rollbackErr)
		}
	}()

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 FOR UPDATE`

	current, err := scanPost(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock post: %w", classifyError(err))
	}

	next, changed, err := posts.Mutate(*current, fn, r.now())
	if err != nil {
		return nil, err
	}

	if changed {
		update := `
			UPDATE posts
			SET like_count = $2, share_count = $3,
				liked_by = $4, shared_by = $5,
				updated_at = $6
			WHERE id = $1
		`
		_, err = tx.ExecContext(ctx, update,
			id, next.Likes, next.Shares,
			pq.Array(next.LikedBy), pq.Array(next.SharedBy),
			next.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update post: %w", classifyError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}

	return &next, nil
}

// Ping checks the database connection
func (r *postgresPostRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// DeleteAll removes every post
func (r *postgresPostRepo) DeleteAll(ctx context.Context) (int, error) {
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
// and returns every other error unchanged.
func classifyError(err error) error {
	if err == nil || posts.IsStoreUnavailable(err) {
		return err
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", posts.ErrStoreUnavailable, err)
	}
	return err
}
