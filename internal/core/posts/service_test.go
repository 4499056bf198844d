package posts

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockPostRepository implements Repository for testing
type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepository) ListRecent(ctx context.Context, offset, limit int) ([]*Post, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*Post), args.Int(1), args.Error(2)
}

// ApplyMutation runs fn against the post the expectation returns, the same
// way a real store would against its locked row.
func (m *mockPostRepository) ApplyMutation(ctx context.Context, id string, fn Mutation) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	current := args.Get(0).(*Post)
	next, err := fn(*current)
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *mockPostRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockPostRepository) DeleteAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func makePosts(n int) []*Post {
	out := make([]*Post, n)
	for i := range out {
		p := newTestPost()
		out[i] = &p
	}
	return out
}

func TestCreatePost_Success(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "https://vistagram.test/", nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.Username == "creative_artist_7" &&
			p.Caption == "Golden hour" &&
			p.Location == "" &&
			p.Likes == 0 && p.Shares == 0 &&
			len(p.LikedBy) == 0 && len(p.SharedBy) == 0 &&
			p.ID != "" && !p.CreatedAt.IsZero()
	})).Return(nil)

	post, err := svc.CreatePost(context.Background(), CreatePostRequest{
		Username: "  creative_artist_7 ",
		ImageURL: "/uploads/image-1.png",
		Caption:  "Golden hour  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "creative_artist_7", post.Username)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	require.NoError(t, post.CheckInvariants())
	repo.AssertExpectations(t)
}

func TestCreatePost_Backdated(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	when := time.Now().Add(-72 * time.Hour).UTC()
	post, err := svc.CreatePost(context.Background(), CreatePostRequest{
		Username:  "u",
		ImageURL:  "/uploads/a.jpg",
		Caption:   "three days ago",
		CreatedAt: when,
	})
	require.NoError(t, err)
	assert.Equal(t, when, post.CreatedAt)
	assert.Equal(t, when, post.UpdatedAt)
}

func TestCreatePost_RejectsFutureTimestamp(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)

	_, err := svc.CreatePost(context.Background(), CreatePostRequest{
		Username:  "u",
		ImageURL:  "/uploads/a.jpg",
		Caption:   "from tomorrow",
		CreatedAt: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   CreatePostRequest
		field string
	}{
		{"missing username", CreatePostRequest{ImageURL: "/uploads/a.jpg", Caption: "hi"}, "username"},
		{"missing caption", CreatePostRequest{Username: "u", ImageURL: "/uploads/a.jpg", Caption: "  "}, "caption"},
		{"missing image", CreatePostRequest{Username: "u", Caption: "hi"}, "image"},
		{"caption too long", CreatePostRequest{Username: "u", ImageURL: "/uploads/a.jpg", Caption: strings.Repeat("a", MaxCaptionLength+1)}, "caption"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockPostRepository)
			svc := NewPostService(repo, "", nil)

			_, err := svc.CreatePost(context.Background(), tt.req)
			require.Error(t, err)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePost_CaptionAtLimit(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreatePost(context.Background(), CreatePostRequest{
		Username: "u",
		ImageURL: "/uploads/a.jpg",
		Caption:  strings.Repeat("a", MaxCaptionLength),
	})
	require.NoError(t, err)
}

func TestCreatePost_CaptionCountsCharactersNotBytes(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	// 2200 multi-byte characters is well over 2200 bytes but still valid
	_, err := svc.CreatePost(context.Background(), CreatePostRequest{
		Username: "u",
		ImageURL: "/uploads/a.jpg",
		Caption:  strings.Repeat("é", MaxCaptionLength),
	})
	require.NoError(t, err)
}

func TestCreatePost_StoreUnavailable(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrStoreUnavailable)

	_, err := svc.CreatePost(context.Background(), CreatePostRequest{
		Username: "u", ImageURL: "/uploads/a.jpg", Caption: "c",
	})
	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))
}

func TestListPosts_FirstPage(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("ListRecent", mock.Anything, 0, 10).Return(makePosts(10), 25, nil)

	resp, err := svc.ListPosts(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Posts, 10)
	assert.Equal(t, PageInfo{CurrentPage: 1, TotalPages: 3, TotalPosts: 25, HasNext: true, HasPrev: false}, resp.Pagination)
}

func TestListPosts_LastPage(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("ListRecent", mock.Anything, 20, 10).Return(makePosts(5), 25, nil)

	resp, err := svc.ListPosts(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, resp.Posts, 5)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}

func TestListPosts_EmptyWindowIsNotAnError(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("ListRecent", mock.Anything, 90, 10).Return(nil, 25, nil)

	resp, err := svc.ListPosts(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.NotNil(t, resp.Posts)
	assert.Empty(t, resp.Posts)
}

func TestListPosts_HugePageIsEmptyWindow(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("ListRecent", mock.Anything, math.MaxInt, 10).Return(nil, 25, nil)

	resp, err := svc.ListPosts(context.Background(), math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.False(t, resp.Pagination.HasNext)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	repo.AssertExpectations(t)
}

func TestListPosts_InvalidParams(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)

	for _, tc := range []struct{ page, limit int }{{-1, 10}, {1, -5}, {1, MaxLimit + 1}} {
		_, err := svc.ListPosts(context.Background(), tc.page, tc.limit)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	}
	repo.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleLike_ReportsNewState(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	p := newTestPost()
	repo.On("ApplyMutation", mock.Anything, p.ID).Return(&p, nil)

	res, err := svc.ToggleLike(context.Background(), p.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Likes: 1, IsLiked: true}, res)
}

func TestToggleLike_Unlike(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	p, err := ToggleLike(newTestPost(), "alice")
	require.NoError(t, err)
	repo.On("ApplyMutation", mock.Anything, p.ID).Return(&p, nil)

	res, err := svc.ToggleLike(context.Background(), p.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{Likes: 0, IsLiked: false}, res)
}

func TestToggleLike_NotFound(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("ApplyMutation", mock.Anything, "missing").Return(nil, NewNotFoundError("missing"))

	_, err := svc.ToggleLike(context.Background(), "missing", "alice")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestToggleLike_RequiresUsername(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)

	_, err := svc.ToggleLike(context.Background(), "id", " ")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "ApplyMutation", mock.Anything, mock.Anything)
}

func TestAddShare_BuildsShareURL(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "https://vistagram.test/", nil)
	p := newTestPost()
	repo.On("ApplyMutation", mock.Anything, p.ID).Return(&p, nil)

	res, err := svc.AddShare(context.Background(), p.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Shares)
	assert.Equal(t, "https://vistagram.test/api/posts/"+p.ID, res.ShareURL)
}

func TestAddShare_RepeatIsNoop(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	p, err := AddShare(newTestPost(), "bob")
	require.NoError(t, err)
	repo.On("ApplyMutation", mock.Anything, p.ID).Return(&p, nil)

	res, err := svc.AddShare(context.Background(), p.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Shares)
	assert.Equal(t, "/api/posts/"+p.ID, res.ShareURL)
}

func TestGetLikers(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	p, err := ToggleLike(newTestPost(), "erin")
	require.NoError(t, err)
	repo.On("GetByID", mock.Anything, p.ID).Return(&p, nil)

	res, err := svc.GetLikers(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"erin"}, res.LikedBy)
}

func TestGetPost_WrapsRepositoryErrors(t *testing.T) {
	repo := new(mockPostRepository)
	svc := NewPostService(repo, "", nil)
	repo.On("GetByID", mock.Anything, "x").Return(nil, errors.New("boom"))

	_, err := svc.GetPost(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to get post")
}
