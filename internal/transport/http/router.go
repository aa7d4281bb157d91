package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vidtube/backend/internal/handler"
	authmw "github.com/vidtube/backend/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	VideoHandler        *handler.VideoHandler
	CommentHandler      *handler.CommentHandler
	TweetHandler        *handler.TweetHandler
	LikeHandler         *handler.LikeHandler
	PlaylistHandler     *handler.PlaylistHandler
	SubscriptionHandler *handler.SubscriptionHandler
	DashboardHandler    *handler.DashboardHandler
	HealthHandler       *handler.HealthHandler
	JWTSecret           string
	CORSOrigins         []string
}

// NewRouter creates and configures a new Chi router with all route groups
// mounted under /api/v1.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Range"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := authmw.RequireAuth(cfg.JWTSecret)
	optionalAuth := authmw.OptionalAuth(cfg.JWTSecret)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", cfg.HealthHandler.Check)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh-token", cfg.AuthHandler.Refresh)

			r.With(optionalAuth).Get("/c/{username}", cfg.UserHandler.ChannelProfile)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Get("/current-user", cfg.AuthHandler.CurrentUser)
				r.Post("/change-password", cfg.AuthHandler.ChangePassword)
				r.Patch("/update-account", cfg.UserHandler.UpdateAccount)
				r.Patch("/avatar", cfg.UserHandler.UpdateAvatar)
				r.Patch("/cover-image", cfg.UserHandler.UpdateCoverImage)
				r.Delete("/account", cfg.UserHandler.DeleteAccount)
				r.Get("/history", cfg.UserHandler.WatchHistory)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.With(optionalAuth).Get("/", cfg.VideoHandler.List)
			r.With(optionalAuth).Get("/{videoId}", cfg.VideoHandler.Get)
			r.With(optionalAuth).Get("/{videoId}/stream", cfg.VideoHandler.Stream)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", cfg.VideoHandler.Publish)
				r.Patch("/{videoId}", cfg.VideoHandler.Update)
				r.Delete("/{videoId}", cfg.VideoHandler.Delete)
				r.Patch("/toggle/publish/{videoId}", cfg.VideoHandler.TogglePublish)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", cfg.CommentHandler.ListByVideo)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/{videoId}", cfg.CommentHandler.Create)
				r.Patch("/c/{commentId}", cfg.CommentHandler.Update)
				r.Delete("/c/{commentId}", cfg.CommentHandler.Delete)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/user/{userId}", cfg.TweetHandler.ListByUser)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", cfg.TweetHandler.Create)
				r.Patch("/{tweetId}", cfg.TweetHandler.Update)
				r.Delete("/{tweetId}", cfg.TweetHandler.Delete)
			})
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/toggle/v/{videoId}", cfg.LikeHandler.ToggleVideo)
			r.Post("/toggle/c/{commentId}", cfg.LikeHandler.ToggleComment)
			r.Post("/toggle/t/{tweetId}", cfg.LikeHandler.ToggleTweet)
			r.Get("/videos", cfg.LikeHandler.LikedVideos)
		})

		r.Route("/playlist", func(r chi.Router) {
			r.Get("/{playlistId}", cfg.PlaylistHandler.Get)
			r.Get("/user/{userId}", cfg.PlaylistHandler.ListByUser)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", cfg.PlaylistHandler.Create)
				r.Patch("/{playlistId}", cfg.PlaylistHandler.Update)
				r.Delete("/{playlistId}", cfg.PlaylistHandler.Delete)
				r.Patch("/add/{videoId}/{playlistId}", cfg.PlaylistHandler.AddVideo)
				r.Patch("/remove/{videoId}/{playlistId}", cfg.PlaylistHandler.RemoveVideo)
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/c/{channelId}", cfg.SubscriptionHandler.Subscribers)
			r.Get("/u/{subscriberId}", cfg.SubscriptionHandler.Subscribed)

			r.With(requireAuth).Post("/c/{channelId}", cfg.SubscriptionHandler.Toggle)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/stats", cfg.DashboardHandler.Stats)
			r.Get("/videos", cfg.DashboardHandler.Videos)
		})
	})

	return r
}
