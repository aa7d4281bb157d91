package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/queue"
)

// CommentCleaner deletes comments left dangling by an entity delete.
// This abstracts the repository layer so workers don't depend on DB directly.
type CommentCleaner interface {
	DeleteByVideo(ctx context.Context, videoID int64) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// LikeCleaner deletes likes left dangling by an entity delete.
type LikeCleaner interface {
	DeleteForTarget(ctx context.Context, target model.LikeTarget, targetID int64) (int64, error)
	DeleteForVideoComments(ctx context.Context, videoID int64) (int64, error)
	DeleteForOwnerComments(ctx context.Context, ownerID int64) (int64, error)
	DeleteForOwnerTweets(ctx context.Context, ownerID int64) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// TweetCleaner deletes a removed user's tweets.
type TweetCleaner interface {
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// VideoCleaner deletes a removed user's uploads, reporting their IDs so
// per-video cleanup can be fanned out.
type VideoCleaner interface {
	DeleteByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

// SubscriptionCleaner removes subscriptions in both directions for a
// deleted user.
type SubscriptionCleaner interface {
	DeleteForUser(ctx context.Context, userID int64) (int64, error)
}

// PlaylistCleaner pulls a deleted video out of every playlist.
type PlaylistCleaner interface {
	RemoveVideoEverywhere(ctx context.Context, videoID int64) (int64, error)
}

// HistoryCleaner drops watch-history rows for a deleted video or user.
type HistoryCleaner interface {
	DeleteForVideo(ctx context.Context, videoID int64) (int64, error)
	DeleteForUser(ctx context.Context, userID int64) (int64, error)
}

// Handler processes cleanup events from the queue.
type Handler struct {
	comments  CommentCleaner
	likes     LikeCleaner
	tweets    TweetCleaner
	videos    VideoCleaner
	subs      SubscriptionCleaner
	lists     PlaylistCleaner
	history   HistoryCleaner
	publisher queue.Publisher
}

// HandlerConfig bundles the cleaner dependencies.
type HandlerConfig struct {
	Comments  CommentCleaner
	Likes     LikeCleaner
	Tweets    TweetCleaner
	Videos    VideoCleaner
	Subs      SubscriptionCleaner
	Lists     PlaylistCleaner
	History   HistoryCleaner
	Publisher queue.Publisher
}

// NewHandler creates a new event handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		comments:  cfg.Comments,
		likes:     cfg.Likes,
		tweets:    cfg.Tweets,
		videos:    cfg.Videos,
		subs:      cfg.Subs,
		lists:     cfg.Lists,
		history:   cfg.History,
		publisher: cfg.Publisher,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.CleanupEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventUserDeleted:
		err = h.handleUserDeleted(ctx, event)
	case queue.EventVideoDeleted:
		err = h.handleVideoDeleted(ctx, event)
	case queue.EventCommentDeleted:
		err = h.handleCommentDeleted(ctx, event)
	case queue.EventTweetDeleted:
		err = h.handleTweetDeleted(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleUserDeleted removes everything a deleted account owned or touched.
// Likes on the user's comments and tweets go first, while those rows still
// exist for the subqueries. The user's uploads are deleted last and each
// removed video gets its own cleanup event, reusing the video-deleted path
// for its comments, likes, playlist entries, and history.
func (h *Handler) handleUserDeleted(ctx context.Context, event queue.CleanupEvent) error {
	userID := event.EntityID
	log.Printf("[Worker] UserDeleted: user=%d", userID)

	commentLikes, err := h.likes.DeleteForOwnerComments(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete likes on user comments: %w", err)
	}
	tweetLikes, err := h.likes.DeleteForOwnerTweets(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete likes on user tweets: %w", err)
	}

	comments, err := h.comments.DeleteByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user comments: %w", err)
	}
	tweets, err := h.tweets.DeleteByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user tweets: %w", err)
	}
	likes, err := h.likes.DeleteByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user likes: %w", err)
	}
	subs, err := h.subs.DeleteForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user subscriptions: %w", err)
	}
	historyRows, err := h.history.DeleteForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user watch history: %w", err)
	}

	videoIDs, err := h.videos.DeleteByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user videos: %w", err)
	}
	for _, videoID := range videoIDs {
		if _, err := h.publisher.Publish(ctx, queue.StreamCleanup, queue.NewVideoDeletedEvent(videoID)); err != nil {
			log.Printf("[Worker] fan-out video cleanup publish failed: video=%d err=%v", videoID, err)
		}
	}

	log.Printf("[Worker] UserDeleted DONE: user=%d comments=%d tweets=%d likes=%d commentLikes=%d tweetLikes=%d subs=%d history=%d videos=%d",
		userID, comments, tweets, likes, commentLikes, tweetLikes, subs, historyRows, len(videoIDs))
	return nil
}

// handleVideoDeleted removes everything that referenced the video: likes on
// its comments, the comments themselves, likes on the video, playlist
// entries, and watch history. Every statement is idempotent, so replaying
// the event after a partial failure is safe.
func (h *Handler) handleVideoDeleted(ctx context.Context, event queue.CleanupEvent) error {
	videoID := event.EntityID
	log.Printf("[Worker] VideoDeleted: video=%d", videoID)

	// Likes on the video's comments first, while the comment rows still
	// exist for the subquery.
	commentLikes, err := h.likes.DeleteForVideoComments(ctx, videoID)
	if err != nil {
		return fmt.Errorf("delete comment likes: %w", err)
	}

	comments, err := h.comments.DeleteByVideo(ctx, videoID)
	if err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}

	videoLikes, err := h.likes.DeleteForTarget(ctx, model.LikeTargetVideo, videoID)
	if err != nil {
		return fmt.Errorf("delete video likes: %w", err)
	}

	playlistEntries, err := h.lists.RemoveVideoEverywhere(ctx, videoID)
	if err != nil {
		return fmt.Errorf("remove playlist entries: %w", err)
	}

	historyRows, err := h.history.DeleteForVideo(ctx, videoID)
	if err != nil {
		return fmt.Errorf("delete watch history: %w", err)
	}

	log.Printf("[Worker] VideoDeleted DONE: video=%d comments=%d commentLikes=%d videoLikes=%d playlists=%d history=%d",
		videoID, comments, commentLikes, videoLikes, playlistEntries, historyRows)
	return nil
}

// handleCommentDeleted removes likes pointing at the deleted comment.
func (h *Handler) handleCommentDeleted(ctx context.Context, event queue.CleanupEvent) error {
	commentID := event.EntityID
	log.Printf("[Worker] CommentDeleted: comment=%d", commentID)

	removed, err := h.likes.DeleteForTarget(ctx, model.LikeTargetComment, commentID)
	if err != nil {
		return fmt.Errorf("delete comment likes: %w", err)
	}

	log.Printf("[Worker] CommentDeleted DONE: comment=%d likes=%d", commentID, removed)
	return nil
}

// handleTweetDeleted removes likes pointing at the deleted tweet.
func (h *Handler) handleTweetDeleted(ctx context.Context, event queue.CleanupEvent) error {
	tweetID := event.EntityID
	log.Printf("[Worker] TweetDeleted: tweet=%d", tweetID)

	removed, err := h.likes.DeleteForTarget(ctx, model.LikeTargetTweet, tweetID)
	if err != nil {
		return fmt.Errorf("delete tweet likes: %w", err)
	}

	log.Printf("[Worker] TweetDeleted DONE: tweet=%d likes=%d", tweetID, removed)
	return nil
}
