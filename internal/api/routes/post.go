package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"Vistagram/internal/api/handlers/post"
	"Vistagram/internal/api/middleware"
	"Vistagram/internal/core/images"
	"Vistagram/internal/core/posts"
)

// RegisterPostRoutes registers the post endpoints under /api/posts.
// Write endpoints accept an optional bearer token; without one the username
// comes from the request body.
func RegisterPostRoutes(r chi.Router, service posts.Service, store images.Store, maxImageBytes int64, authMiddleware *middleware.JWTAuthMiddleware, logger *slog.Logger) {
	listHandler := post.NewListHandler(service)
	getHandler := post.NewGetHandler(service)
	createHandler := post.NewCreateHandler(service, store, maxImageBytes, logger)
	likeHandler := post.NewLikeHandler(service)
	shareHandler := post.NewShareHandler(service)
	likersHandler := post.NewLikersHandler(service)

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", listHandler.HandleList)
		r.Get("/{id}", getHandler.HandleGet)
		r.Get("/{id}/likes", likersHandler.HandleLikers)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuth)
			r.Post("/", createHandler.HandleCreate)
			r.Post("/{id}/like", likeHandler.HandleLike)
			r.Post("/{id}/share", shareHandler.HandleShare)
		})
	})
}
