package queue

import (
	"fmt"
	"strconv"
	"time"
)

// Event types for the cleanup stream. Deleting an entity leaves dangling
// references (likes, comments, playlist entries, watch history) that the
// cleanup worker removes asynchronously.
const (
	EventUserDeleted    = "user_deleted"
	EventVideoDeleted   = "video_deleted"
	EventCommentDeleted = "comment_deleted"
	EventTweetDeleted   = "tweet_deleted"
)

// Stream names
const (
	StreamCleanup = "stream:cleanup"
)

// Consumer group name for cleanup workers
const (
	ConsumerGroupCleanup = "cleanup_workers"
)

// CleanupEvent is an entity-deleted event published to the cleanup stream.
type CleanupEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when the delete committed
	EntityID  int64  `json:"entity_id"` // ID of the deleted entity
}

// NewUserDeletedEvent creates an event for a deleted account. The worker
// removes the user's content, likes, subscriptions, and history, then
// fans out one video-deleted event per removed upload.
func NewUserDeletedEvent(userID int64) CleanupEvent {
	return CleanupEvent{
		Type:      EventUserDeleted,
		Timestamp: time.Now().Unix(),
		EntityID:  userID,
	}
}

// NewVideoDeletedEvent creates an event for a deleted video. The worker
// removes its comments, likes, playlist entries, and watch-history rows.
func NewVideoDeletedEvent(videoID int64) CleanupEvent {
	return CleanupEvent{
		Type:      EventVideoDeleted,
		Timestamp: time.Now().Unix(),
		EntityID:  videoID,
	}
}

// NewCommentDeletedEvent creates an event for a deleted comment. The worker
// removes likes pointing at it.
func NewCommentDeletedEvent(commentID int64) CleanupEvent {
	return CleanupEvent{
		Type:      EventCommentDeleted,
		Timestamp: time.Now().Unix(),
		EntityID:  commentID,
	}
}

// NewTweetDeletedEvent creates an event for a deleted tweet. The worker
// removes likes pointing at it.
func NewTweetDeletedEvent(tweetID int64) CleanupEvent {
	return CleanupEvent{
		Type:      EventTweetDeleted,
		Timestamp: time.Now().Unix(),
		EntityID:  tweetID,
	}
}

// ToMap serializes the event into Redis stream field/value pairs.
func (e CleanupEvent) ToMap() (map[string]interface{}, error) {
	if e.Type == "" {
		return nil, fmt.Errorf("event type is required")
	}
	return map[string]interface{}{
		"type":      e.Type,
		"timestamp": strconv.FormatInt(e.Timestamp, 10),
		"entity_id": strconv.FormatInt(e.EntityID, 10),
	}, nil
}

// ParseCleanupEvent deserializes a Redis stream message back into an event.
func ParseCleanupEvent(values map[string]interface{}) (CleanupEvent, error) {
	var e CleanupEvent

	typ, ok := values["type"].(string)
	if !ok || typ == "" {
		return e, fmt.Errorf("missing event type")
	}
	e.Type = typ

	if s, ok := values["timestamp"].(string); ok {
		e.Timestamp, _ = strconv.ParseInt(s, 10, 64)
	}

	s, ok := values["entity_id"].(string)
	if !ok {
		return e, fmt.Errorf("missing entity_id")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return e, fmt.Errorf("invalid entity_id %q: %w", s, err)
	}
	e.EntityID = id

	return e, nil
}
