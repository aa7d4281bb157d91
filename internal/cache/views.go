package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ViewDedupPrefix is the key prefix for per-viewer view dedup markers
	ViewDedupPrefix = "views:dedup:"

	// ViewDedupTTL is how long a viewer's view of a video counts as "recent".
	// Repeat views within this window do not increment the counter.
	ViewDedupTTL = 6 * time.Hour
)

// ViewGuard decides whether a view event should count toward a video's
// view counter. Using an interface enables testing with mocks.
type ViewGuard interface {
	// ShouldCount returns true if this viewer has not viewed this video
	// within the dedup window. viewerKey is a user ID or a client
	// fingerprint for anonymous viewers.
	ShouldCount(ctx context.Context, videoID int64, viewerKey string) (bool, error)
}

// RedisViewGuard implements ViewGuard using Redis SETNX with a TTL.
type RedisViewGuard struct {
	client *redis.Client
}

// NewViewGuard creates a new ViewGuard backed by Redis.
func NewViewGuard(client *redis.Client) ViewGuard {
	return &RedisViewGuard{client: client}
}

// dedupKey returns the Redis key for one viewer's marker on one video.
func dedupKey(videoID int64, viewerKey string) string {
	return fmt.Sprintf("%s%d:%s", ViewDedupPrefix, videoID, viewerKey)
}

// ShouldCount sets the dedup marker atomically. SETNX returns true only
// for the first view within the TTL window.
func (g *RedisViewGuard) ShouldCount(ctx context.Context, videoID int64, viewerKey string) (bool, error) {
	key := dedupKey(videoID, viewerKey)

	first, err := g.client.SetNX(ctx, key, "1", ViewDedupTTL).Result()
	if err != nil {
		log.Printf("[ViewGuard] ShouldCount FAILED: video=%d viewer=%s err=%v", videoID, viewerKey, err)
		return false, fmt.Errorf("set view dedup marker: %w", err)
	}

	log.Printf("[ViewGuard] ShouldCount: video=%d viewer=%s count=%t", videoID, viewerKey, first)
	return first, nil
}
