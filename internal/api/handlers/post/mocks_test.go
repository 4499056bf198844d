package post

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"Vistagram/internal/core/posts"
)

// mockPostService implements posts.Service for testing
type mockPostService struct {
	createFunc     func(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error)
	getFunc        func(ctx context.Context, id string) (*posts.Post, error)
	listFunc       func(ctx context.Context, page, limit int) (*posts.FeedResponse, error)
	toggleLikeFunc func(ctx context.Context, id, username string) (*posts.LikeResult, error)
	addShareFunc   func(ctx context.Context, id, username string) (*posts.ShareResult, error)
	getLikersFunc  func(ctx context.Context, id string) (*posts.LikersResult, error)
}

func (m *mockPostService) CreatePost(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &posts.Post{ID: "11111111-1111-1111-1111-111111111111", Username: req.Username, ImageURL: req.ImageURL, Caption: req.Caption, Location: req.Location, LikedBy: []string{}, SharedBy: []string{}}, nil
}

func (m *mockPostService) GetPost(ctx context.Context, id string) (*posts.Post, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, posts.NewNotFoundError(id)
}

func (m *mockPostService) ListPosts(ctx context.Context, page, limit int) (*posts.FeedResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, page, limit)
	}
	return &posts.FeedResponse{Posts: []*posts.Post{}}, nil
}

func (m *mockPostService) ToggleLike(ctx context.Context, id, username string) (*posts.LikeResult, error) {
	if m.toggleLikeFunc != nil {
		return m.toggleLikeFunc(ctx, id, username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPostService) AddShare(ctx context.Context, id, username string) (*posts.ShareResult, error) {
	if m.addShareFunc != nil {
		return m.addShareFunc(ctx, id, username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPostService) GetLikers(ctx context.Context, id string) (*posts.LikersResult, error) {
	if m.getLikersFunc != nil {
		return m.getLikersFunc(ctx, id)
	}
	return nil, posts.NewNotFoundError(id)
}

// fakeImageStore implements images.Store in memory
type fakeImageStore struct {
	saveErr error
	saved   map[string][]byte
	deleted []string
	mu      sync.Mutex
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{saved: make(map[string][]byte)}
}

func (f *fakeImageStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := "/uploads/image-1-" + filename
	f.saved[ref] = data
	return ref, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, ref)
	f.deleted = append(f.deleted, ref)
	return nil
}

// withURLParam attaches a chi URL parameter to the request
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
