package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"Vistagram/internal/api/handlers"
	"Vistagram/internal/api/handlers/caption"
	"Vistagram/internal/api/handlers/uploads"
	"Vistagram/internal/api/middleware"
	"Vistagram/internal/core/images"
	"Vistagram/internal/core/posts"
)

// RouterDeps are the collaborators mounted by NewRouter
type RouterDeps struct {
	Posts          posts.Service
	Store          posts.Repository
	Images         images.Store
	Uploads        *uploads.Handler
	Captions       caption.Generator
	Auth           *middleware.JWTAuthMiddleware
	RateLimiter    *middleware.RateLimiter
	Logger         *slog.Logger
	AllowedOrigins []string
	MaxImageBytes  int64
	TrustProxy     bool
}

// NewRouter builds the HTTP handler for the API
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Auth == nil {
		deps.Auth = middleware.NewJWTAuthMiddleware("", deps.Logger)
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if deps.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware)
	}

	RegisterHealthRoutes(r, deps.Store)
	RegisterPostRoutes(r, deps.Posts, deps.Images, deps.MaxImageBytes, deps.Auth, deps.Logger)
	if deps.Captions != nil {
		RegisterCaptionRoutes(r, deps.Captions)
	}
	if deps.Uploads != nil {
		RegisterUploadRoutes(r, deps.Uploads)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "Method not allowed")
	})

	return r
}
