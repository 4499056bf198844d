package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vistagram/internal/core/posts"
	"Vistagram/internal/db/migrations"
)

// setupTestDB creates a fresh migrated database in a temp directory
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "vistagram_test.db"))
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, migrations.Up(ctx, db, migrations.SQLite), "Failed to run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newPost(username string, createdAt time.Time) *posts.Post {
	return &posts.Post{
		ID:        uuid.NewString(),
		Username:  username,
		ImageURL:  "/uploads/" + username + ".jpg",
		Caption:   "caption by " + username,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		LikedBy:   []string{},
		SharedBy:  []string{},
	}
}

func seedPosts(t *testing.T, repo posts.Repository, n int) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Create(context.Background(), newPost(fmt.Sprintf("user_%02d", i), base.Add(time.Duration(i)*time.Minute))))
	}
}

func TestPostRepo_CreateAndGet(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	created := time.Date(2025, 1, 2, 3, 4, 5, 678, time.UTC)
	post := newPost("radiant_traveler_12", created)
	post.Location = "Kyoto, Japan"
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post, got)
}

func TestPostRepo_Create_RejectsInconsistentCounters(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	post := newPost("cheater", time.Now().UTC())
	post.Likes = 10
	err := repo.Create(context.Background(), post)
	require.Error(t, err)
	assert.True(t, posts.IsValidationError(err))
}

func TestPostRepo_GetByID_NotFound(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, posts.IsNotFound(err))
}

func TestPostRepo_ListRecent_Windows(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	seedPosts(t, repo, 25)
	ctx := context.Background()

	page1, total, err := repo.ListRecent(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page1, 10)
	assert.Equal(t, "user_24", page1[0].Username)
	assert.Equal(t, "user_15", page1[9].Username)

	page3, total, err := repo.ListRecent(ctx, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page3, 5)
	assert.Equal(t, "user_04", page3[0].Username)
	assert.Equal(t, "user_00", page3[4].Username)

	beyond, total, err := repo.ListRecent(ctx, 50, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

func TestPostRepo_ListRecent_ThroughService(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	seedPosts(t, repo, 25)
	svc := posts.NewPostService(repo, "", nil)
	ctx := context.Background()

	first, err := svc.ListPosts(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 3, first.Pagination.TotalPages)
	assert.True(t, first.Pagination.HasNext)
	assert.False(t, first.Pagination.HasPrev)

	last, err := svc.ListPosts(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 5)
	assert.False(t, last.Pagination.HasNext)
	assert.True(t, last.Pagination.HasPrev)

	far, err := svc.ListPosts(ctx, math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, far.Posts)
	assert.False(t, far.Pagination.HasNext)
	assert.Equal(t, 25, far.Pagination.TotalPosts)
}

func TestPostRepo_ApplyMutation_ToggleTwiceRestoresRow(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	post := newPost("owner", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, post))

	toggle := func(p posts.Post) (posts.Post, error) { return posts.ToggleLike(p, "alice") }

	liked, err := repo.ApplyMutation(ctx, post.ID, toggle)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	unliked, err := repo.ApplyMutation(ctx, post.ID, toggle)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.LikedBy, got.LikedBy)
	assert.Equal(t, post.Likes, got.Likes)
	assert.Equal(t, post.CreatedAt, got.CreatedAt)
}

func TestPostRepo_ApplyMutation_ShareIsRecordedOnce(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	post := newPost("owner", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, post))

	share := func(p posts.Post) (posts.Post, error) { return posts.AddShare(p, "bob") }

	first, err := repo.ApplyMutation(ctx, post.ID, share)
	require.NoError(t, err)
	second, err := repo.ApplyMutation(ctx, post.ID, share)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Shares)
	assert.Equal(t, first, second)
}

func TestPostRepo_ApplyMutation_NotFound(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	_, err := repo.ApplyMutation(context.Background(), uuid.NewString(), func(p posts.Post) (posts.Post, error) {
		return posts.ToggleLike(p, "x")
	})
	assert.True(t, posts.IsNotFound(err))
}

func TestPostRepo_ApplyMutation_ErrorLeavesRowUntouched(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	post := newPost("owner", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, post))

	_, err := repo.ApplyMutation(ctx, post.ID, func(p posts.Post) (posts.Post, error) {
		return posts.ToggleLike(p, "")
	})
	assert.True(t, posts.IsValidationError(err))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
}

func TestPostRepo_ConcurrentLikesFromDistinctUsers(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	svc := posts.NewPostService(repo, "", nil)
	ctx := context.Background()
	post := newPost("popular", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, post))

	const likers = 100
	var wg sync.WaitGroup
	errs := make(chan error, likers)
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, post.ID, fmt.Sprintf("liker_%03d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, likers, got.Likes)
	assert.Len(t, got.LikedBy, likers)
	require.NoError(t, got.CheckInvariants())
}

func TestPostRepo_ConcurrentLikesAndShares(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	svc := posts.NewPostService(repo, "", nil)
	ctx := context.Background()
	post := newPost("busy", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, post))

	// Every user toggles like twice (net zero) and shares twice (net one)
	const users = 30
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user_%02d", i)
			for j := 0; j < 2; j++ {
				_, err := svc.ToggleLike(ctx, post.ID, name)
				assert.NoError(t, err)
				_, err = svc.AddShare(ctx, post.ID, name)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
	assert.Equal(t, users, got.Shares)
	require.NoError(t, got.CheckInvariants())
}

func TestPostRepo_CaptionLimitThroughService(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	svc := posts.NewPostService(repo, "", nil)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, posts.CreatePostRequest{
		Username: "u", ImageURL: "/uploads/a.jpg", Caption: strings.Repeat("x", 2201),
	})
	assert.True(t, posts.IsValidationError(err))

	created, err := svc.CreatePost(ctx, posts.CreatePostRequest{
		Username: "u", ImageURL: "/uploads/a.jpg", Caption: strings.Repeat("x", 2200),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Caption, 2200)
}

func TestPostRepo_DeleteAll(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	seedPosts(t, repo, 6)

	removed, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, removed)

	window, total, err := repo.ListRecent(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, window)

	removed, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestClassifyError(t *testing.T) {
	assert.NoError(t, classifyError(nil))
	assert.True(t, posts.IsStoreUnavailable(classifyError(sql.ErrConnDone)))
	assert.False(t, posts.IsStoreUnavailable(classifyError(sql.ErrNoRows)))
}
