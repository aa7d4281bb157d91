package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidtube/backend/internal/cache"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/database"
	"github.com/vidtube/backend/internal/handler"
	"github.com/vidtube/backend/internal/queue"
	appredis "github.com/vidtube/backend/internal/redis"
	"github.com/vidtube/backend/internal/repository"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/worker"
)

const shutdownTimeout = 15 * time.Second

// Run wires the whole application together and serves until SIGINT or
// SIGTERM.
func Run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis
	rdb, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// 4. Media storage
	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	// 5. Repositories
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	historyRepo := repository.NewWatchHistoryRepository(db)

	// 6. Services
	publisher := queue.NewPublisher(rdb.Client)
	viewGuard := cache.NewViewGuard(rdb.Client)

	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo, historyRepo, publisher)
	videoService := service.NewVideoService(videoRepo, historyRepo, viewGuard, publisher)
	commentService := service.NewCommentService(commentRepo, videoRepo, publisher)
	tweetService := service.NewTweetService(tweetRepo, publisher)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo)
	dashboardService := service.NewDashboardService(videoRepo)

	// 7. Cleanup worker pool
	consumer := queue.NewConsumer(rdb.Client)
	cleanupHandler := worker.NewHandler(worker.HandlerConfig{
		Comments:  commentRepo,
		Likes:     likeRepo,
		Tweets:    tweetRepo,
		Videos:    videoRepo,
		Subs:      subscriptionRepo,
		Lists:     playlistRepo,
		History:   historyRepo,
		Publisher: publisher,
	})
	manager := worker.NewManager(consumer, cleanupHandler, worker.DefaultManagerConfig())
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cleanup workers: %w", err)
	}
	defer manager.Stop()

	// 8. HTTP layer
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService, mediaService, cfg),
		UserHandler:         handler.NewUserHandler(userService, mediaService),
		VideoHandler:        handler.NewVideoHandler(videoService, mediaService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		TweetHandler:        handler.NewTweetHandler(tweetService),
		LikeHandler:         handler.NewLikeHandler(likeService),
		PlaylistHandler:     handler.NewPlaylistHandler(playlistService),
		SubscriptionHandler: handler.NewSubscriptionHandler(subscriptionService),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService),
		HealthHandler:       handler.NewHealthHandler(),
		JWTSecret:           cfg.JWTSecret,
		CORSOrigins:         cfg.CORSOrigins,
	})

	srv := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // video streaming holds responses open
		IdleTimeout:  120 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on :%s", cfg.ServerPort)
		srvErr <- srv.ListenAndServe()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signalCh:
		log.Printf("[Server] received %s, shutting down", sig)
	case err := <-srvErr:
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
