package router

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"go-social-api/internal/config"
	"go-social-api/internal/handler"
	"go-social-api/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Post   *handler.PostHandler
	Feed   *handler.FeedHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)

	r.Route("/api", func(api chi.Router) {
		// The feed hijacks the connection and stays outside the timeout and
		// body limit.
		api.With(authMiddleware.RequireAuth).Get("/feed/ws", h.Feed.Connect)

		api.Group(func(rest chi.Router) {
			rest.Use(middleware.Timeout(cfg.RequestTimeout))
			rest.Use(middleware.BodyLimit(cfg.MaxBodySize, cfg.MaxUploadSize))

			rest.Route("/user", func(user chi.Router) {
				user.Post("/register", h.Auth.Register)
				user.Post("/login", h.Auth.Login)
				user.Post("/refresh-token", h.Auth.RefreshToken)

				user.Group(func(protected chi.Router) {
					protected.Use(authMiddleware.RequireAuth)
					protected.Get("/logout", h.Auth.Logout)
					protected.Post("/logout", h.Auth.Logout)
					protected.Get("/get-user", h.User.GetUser)
					protected.Post("/add-score", h.User.AddScore)
					protected.Get("/leaderboard", h.User.Leaderboard)
					protected.Patch("/update-avatar", h.User.UpdateAvatar)
					protected.Patch("/update-email", h.User.UpdateEmail)
					protected.Patch("/change-password", h.Auth.ChangePassword)
					protected.Patch("/store-data", h.User.StoreData)
					protected.Get("/get-stored-data", h.User.GetStoredData)
				})
			})

			rest.Route("/posts", func(posts chi.Router) {
				posts.Use(authMiddleware.RequireAuth)
				posts.Post("/create", h.Post.Create)
				posts.Get("/get-posts", h.Post.GetPosts)
				posts.Get("/get-user-posts", h.Post.GetUserPosts)
				posts.Delete("/delete", h.Post.Delete)
				posts.Post("/update", h.Post.Update)
				posts.Get("/search", h.Post.Search)
				posts.Post("/like", h.Post.Like)
				posts.Post("/unlike", h.Post.Unlike)
				posts.Get("/liked-posts", h.Post.LikedPosts)
				posts.Post("/comments", h.Post.AddComment)
				posts.Delete("/comments", h.Post.DeleteComment)
			})
		})
	})

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
