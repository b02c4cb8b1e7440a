package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/social-service/internal/api/http/handlers"
	"github.com/spec-kit/social-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Posts          *handlers.PostsHandler
	Comments       *handlers.CommentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The authorization gate runs only on the
// routes that carry it; public reads and login skip it entirely, so unmatched
// paths still fall through to 404.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Get("/posts", cfg.Posts.List)
	app.Get("/posts/:postID", cfg.Posts.Get)
	app.Get("/posts/:postID/comments", cfg.Comments.List)

	gate := cfg.AuthMiddleware.Handle
	app.Get("/auth/me", gate, cfg.Auth.Me)

	app.Post("/users", gate, cfg.Users.Create)
	app.Get("/users", gate, cfg.Users.List)
	app.Get("/users/:userID", gate, cfg.Users.Get)
	app.Put("/users/:userID", gate, cfg.Users.Update)
	app.Delete("/users/:userID", gate, cfg.Users.Delete)

	app.Post("/posts", gate, cfg.Posts.Create)
	app.Delete("/posts/:postID", gate, cfg.Posts.Delete)
	app.Post("/posts/:postID/comments", gate, cfg.Comments.Create)
	app.Post("/posts/:postID/like", gate, cfg.Posts.Like)
	app.Delete("/posts/:postID/like", gate, cfg.Posts.Unlike)
}
