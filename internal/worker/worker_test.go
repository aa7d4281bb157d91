package worker_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/queue"
	"github.com/vidtube/backend/internal/worker"
)

// =============================================================================
// Mock Implementations
// =============================================================================

// MockCommentCleaner simulates the comment repository.
type MockCommentCleaner struct {
	// comments maps videoID -> number of comments on that video
	comments map[int64]int64
	// ownerComments maps ownerID -> number of comments the user wrote
	ownerComments map[int64]int64

	deletedVideos []int64
}

func NewMockCommentCleaner() *MockCommentCleaner {
	return &MockCommentCleaner{
		comments:      make(map[int64]int64),
		ownerComments: make(map[int64]int64),
	}
}

func (m *MockCommentCleaner) AddComments(videoID, count int64) {
	m.comments[videoID] += count
}

func (m *MockCommentCleaner) AddOwnerComments(ownerID, count int64) {
	m.ownerComments[ownerID] += count
}

func (m *MockCommentCleaner) DeleteByVideo(ctx context.Context, videoID int64) (int64, error) {
	m.deletedVideos = append(m.deletedVideos, videoID)
	n := m.comments[videoID]
	delete(m.comments, videoID)
	return n, nil
}

func (m *MockCommentCleaner) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	n := m.ownerComments[ownerID]
	delete(m.ownerComments, ownerID)
	return n, nil
}

// MockLikeCleaner simulates the like repository.
type MockLikeCleaner struct {
	// likes maps target kind -> targetID -> like count
	likes map[model.LikeTarget]map[int64]int64

	// commentLikes maps videoID -> likes on that video's comments
	commentLikes map[int64]int64

	// ownerCommentLikes / ownerTweetLikes map ownerID -> likes other users
	// left on that user's comments / tweets
	ownerCommentLikes map[int64]int64
	ownerTweetLikes   map[int64]int64

	// ownedLikes maps ownerID -> likes the user gave out
	ownedLikes map[int64]int64

	// order records cleanup calls so tests can assert sequencing
	order []string
}

func NewMockLikeCleaner() *MockLikeCleaner {
	return &MockLikeCleaner{
		likes: map[model.LikeTarget]map[int64]int64{
			model.LikeTargetVideo:   {},
			model.LikeTargetComment: {},
			model.LikeTargetTweet:   {},
		},
		commentLikes:      make(map[int64]int64),
		ownerCommentLikes: make(map[int64]int64),
		ownerTweetLikes:   make(map[int64]int64),
		ownedLikes:        make(map[int64]int64),
	}
}

func (m *MockLikeCleaner) AddLikes(target model.LikeTarget, targetID, count int64) {
	m.likes[target][targetID] += count
}

func (m *MockLikeCleaner) AddCommentLikes(videoID, count int64) {
	m.commentLikes[videoID] += count
}

func (m *MockLikeCleaner) DeleteForTarget(ctx context.Context, target model.LikeTarget, targetID int64) (int64, error) {
	m.order = append(m.order, "target:"+string(target))
	n := m.likes[target][targetID]
	delete(m.likes[target], targetID)
	return n, nil
}

func (m *MockLikeCleaner) DeleteForVideoComments(ctx context.Context, videoID int64) (int64, error) {
	m.order = append(m.order, "video_comments")
	n := m.commentLikes[videoID]
	delete(m.commentLikes, videoID)
	return n, nil
}

func (m *MockLikeCleaner) DeleteForOwnerComments(ctx context.Context, ownerID int64) (int64, error) {
	m.order = append(m.order, "owner_comments")
	n := m.ownerCommentLikes[ownerID]
	delete(m.ownerCommentLikes, ownerID)
	return n, nil
}

func (m *MockLikeCleaner) DeleteForOwnerTweets(ctx context.Context, ownerID int64) (int64, error) {
	m.order = append(m.order, "owner_tweets")
	n := m.ownerTweetLikes[ownerID]
	delete(m.ownerTweetLikes, ownerID)
	return n, nil
}

func (m *MockLikeCleaner) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	m.order = append(m.order, "owner_likes")
	n := m.ownedLikes[ownerID]
	delete(m.ownedLikes, ownerID)
	return n, nil
}

// MockTweetCleaner simulates the tweet repository.
type MockTweetCleaner struct {
	ownerTweets map[int64]int64
}

func (m *MockTweetCleaner) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	n := m.ownerTweets[ownerID]
	delete(m.ownerTweets, ownerID)
	return n, nil
}

// MockVideoCleaner simulates the video repository.
type MockVideoCleaner struct {
	ownerVideos map[int64][]int64
}

func (m *MockVideoCleaner) DeleteByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	ids := m.ownerVideos[ownerID]
	delete(m.ownerVideos, ownerID)
	return ids, nil
}

// MockSubscriptionCleaner simulates the subscription repository.
type MockSubscriptionCleaner struct {
	userSubs map[int64]int64
}

func (m *MockSubscriptionCleaner) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	n := m.userSubs[userID]
	delete(m.userSubs, userID)
	return n, nil
}

// MockPlaylistCleaner simulates the playlist repository.
type MockPlaylistCleaner struct {
	// entries maps videoID -> number of playlists containing it
	entries map[int64]int64
}

func NewMockPlaylistCleaner() *MockPlaylistCleaner {
	return &MockPlaylistCleaner{entries: make(map[int64]int64)}
}

func (m *MockPlaylistCleaner) AddEntries(videoID, count int64) {
	m.entries[videoID] += count
}

func (m *MockPlaylistCleaner) RemoveVideoEverywhere(ctx context.Context, videoID int64) (int64, error) {
	n := m.entries[videoID]
	delete(m.entries, videoID)
	return n, nil
}

// MockHistoryCleaner simulates the watch-history repository.
type MockHistoryCleaner struct {
	rows     map[int64]int64
	userRows map[int64]int64
}

func NewMockHistoryCleaner() *MockHistoryCleaner {
	return &MockHistoryCleaner{
		rows:     make(map[int64]int64),
		userRows: make(map[int64]int64),
	}
}

func (m *MockHistoryCleaner) AddRows(videoID, count int64) {
	m.rows[videoID] += count
}

func (m *MockHistoryCleaner) DeleteForVideo(ctx context.Context, videoID int64) (int64, error) {
	n := m.rows[videoID]
	delete(m.rows, videoID)
	return n, nil
}

func (m *MockHistoryCleaner) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	n := m.userRows[userID]
	delete(m.userRows, userID)
	return n, nil
}

// MockEventPublisher records the events the handler fans out.
type MockEventPublisher struct {
	published []queue.CleanupEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, stream string, event queue.CleanupEvent) (string, error) {
	m.published = append(m.published, event)
	return fmt.Sprintf("1-%d", len(m.published)), nil
}

// testEnv bundles the handler with all its mocks.
type testEnv struct {
	handler   *worker.Handler
	comments  *MockCommentCleaner
	likes     *MockLikeCleaner
	tweets    *MockTweetCleaner
	videos    *MockVideoCleaner
	subs      *MockSubscriptionCleaner
	lists     *MockPlaylistCleaner
	history   *MockHistoryCleaner
	publisher *MockEventPublisher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		comments:  NewMockCommentCleaner(),
		likes:     NewMockLikeCleaner(),
		tweets:    &MockTweetCleaner{ownerTweets: make(map[int64]int64)},
		videos:    &MockVideoCleaner{ownerVideos: make(map[int64][]int64)},
		subs:      &MockSubscriptionCleaner{userSubs: make(map[int64]int64)},
		lists:     NewMockPlaylistCleaner(),
		history:   NewMockHistoryCleaner(),
		publisher: &MockEventPublisher{},
	}
	env.handler = worker.NewHandler(worker.HandlerConfig{
		Comments:  env.comments,
		Likes:     env.likes,
		Tweets:    env.tweets,
		Videos:    env.videos,
		Subs:      env.subs,
		Lists:     env.lists,
		History:   env.history,
		Publisher: env.publisher,
	})
	return env
}

// =============================================================================
// Handler Tests
// =============================================================================

// TestVideoDeletedCleanup tests that deleting a video removes every
// dangling reference: comments, likes on those comments, likes on the
// video, playlist entries, and watch history.
func TestVideoDeletedCleanup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	// Scenario: video 100 has 3 comments, 2 likes on those comments,
	// 5 likes on the video itself, appears in 2 playlists, and 4 users
	// have it in their watch history.
	videoID := int64(100)
	env.comments.AddComments(videoID, 3)
	env.likes.AddCommentLikes(videoID, 2)
	env.likes.AddLikes(model.LikeTargetVideo, videoID, 5)
	env.lists.AddEntries(videoID, 2)
	env.history.AddRows(videoID, 4)

	// Another video's data must survive the cleanup untouched
	otherID := int64(200)
	env.comments.AddComments(otherID, 1)
	env.likes.AddLikes(model.LikeTargetVideo, otherID, 7)
	env.lists.AddEntries(otherID, 1)
	env.history.AddRows(otherID, 1)

	event := queue.NewVideoDeletedEvent(videoID)
	if err := env.handler.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	// Verify: everything for video 100 is gone
	if _, ok := env.comments.comments[videoID]; ok {
		t.Error("Comments on deleted video should have been removed")
	}
	if _, ok := env.likes.commentLikes[videoID]; ok {
		t.Error("Likes on deleted video's comments should have been removed")
	}
	if _, ok := env.likes.likes[model.LikeTargetVideo][videoID]; ok {
		t.Error("Likes on deleted video should have been removed")
	}
	if _, ok := env.lists.entries[videoID]; ok {
		t.Error("Playlist entries for deleted video should have been removed")
	}
	if _, ok := env.history.rows[videoID]; ok {
		t.Error("Watch history for deleted video should have been removed")
	}

	// Verify: the other video is untouched
	if env.comments.comments[otherID] != 1 {
		t.Error("Comments on other video should remain")
	}
	if env.likes.likes[model.LikeTargetVideo][otherID] != 7 {
		t.Error("Likes on other video should remain")
	}
	if env.lists.entries[otherID] != 1 {
		t.Error("Playlist entries for other video should remain")
	}
	if env.history.rows[otherID] != 1 {
		t.Error("Watch history for other video should remain")
	}
}

// TestVideoDeletedCleanupOrder tests that likes on comments are removed
// before the comments themselves (the DELETE subquery resolves against
// comment rows, so reversing the order would strand the likes).
func TestVideoDeletedCleanupOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	videoID := int64(100)
	env.comments.AddComments(videoID, 2)
	env.likes.AddCommentLikes(videoID, 3)

	if err := env.handler.HandleEvent(ctx, queue.NewVideoDeletedEvent(videoID)); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if len(env.likes.order) == 0 || env.likes.order[0] != "video_comments" {
		t.Errorf("Comment likes must be removed first, call order was %v", env.likes.order)
	}
	if len(env.comments.deletedVideos) != 1 || env.comments.deletedVideos[0] != videoID {
		t.Errorf("Comments.DeleteByVideo calls: got %v, want [%d]", env.comments.deletedVideos, videoID)
	}
}

// TestCommentDeletedCleanup tests that deleting a comment removes its likes.
func TestCommentDeletedCleanup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	commentID := int64(42)
	env.likes.AddLikes(model.LikeTargetComment, commentID, 3)
	env.likes.AddLikes(model.LikeTargetComment, 43, 1)

	if err := env.handler.HandleEvent(ctx, queue.NewCommentDeletedEvent(commentID)); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if _, ok := env.likes.likes[model.LikeTargetComment][commentID]; ok {
		t.Error("Likes on deleted comment should have been removed")
	}
	if env.likes.likes[model.LikeTargetComment][43] != 1 {
		t.Error("Likes on other comment should remain")
	}
}

// TestTweetDeletedCleanup tests that deleting a tweet removes its likes.
func TestTweetDeletedCleanup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	tweetID := int64(7)
	env.likes.AddLikes(model.LikeTargetTweet, tweetID, 2)

	if err := env.handler.HandleEvent(ctx, queue.NewTweetDeletedEvent(tweetID)); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if _, ok := env.likes.likes[model.LikeTargetTweet][tweetID]; ok {
		t.Error("Likes on deleted tweet should have been removed")
	}
}

// TestUserDeletedCleanup tests the full account cascade: the user's
// content, likes, subscriptions, and history go, likes on their content
// are removed before the content rows, and one video-deleted event is
// fanned out per removed upload.
func TestUserDeletedCleanup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	userID := int64(9)
	env.comments.AddOwnerComments(userID, 4)
	env.tweets.ownerTweets[userID] = 2
	env.likes.ownerCommentLikes[userID] = 3
	env.likes.ownerTweetLikes[userID] = 1
	env.likes.ownedLikes[userID] = 6
	env.subs.userSubs[userID] = 5
	env.history.userRows[userID] = 7
	env.videos.ownerVideos[userID] = []int64{100, 101}

	if err := env.handler.HandleEvent(ctx, queue.NewUserDeletedEvent(userID)); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	// Everything the user owned or touched is gone
	if _, ok := env.comments.ownerComments[userID]; ok {
		t.Error("User's comments should have been removed")
	}
	if _, ok := env.tweets.ownerTweets[userID]; ok {
		t.Error("User's tweets should have been removed")
	}
	if _, ok := env.likes.ownedLikes[userID]; ok {
		t.Error("User's likes should have been removed")
	}
	if _, ok := env.subs.userSubs[userID]; ok {
		t.Error("User's subscriptions should have been removed")
	}
	if _, ok := env.history.userRows[userID]; ok {
		t.Error("User's watch history should have been removed")
	}
	if _, ok := env.videos.ownerVideos[userID]; ok {
		t.Error("User's videos should have been removed")
	}

	// Likes on the user's content must be removed before the content rows
	if len(env.likes.order) < 2 || env.likes.order[0] != "owner_comments" || env.likes.order[1] != "owner_tweets" {
		t.Errorf("Likes on user content must go first, call order was %v", env.likes.order)
	}

	// One video-deleted event per removed upload
	if len(env.publisher.published) != 2 {
		t.Fatalf("Fanned-out events: got %d, want 2", len(env.publisher.published))
	}
	for i, wantID := range []int64{100, 101} {
		ev := env.publisher.published[i]
		if ev.Type != queue.EventVideoDeleted || ev.EntityID != wantID {
			t.Errorf("event[%d] = %+v, want video_deleted for %d", i, ev, wantID)
		}
	}
}

// TestUnknownEventType tests that an unrecognized event type is rejected.
func TestUnknownEventType(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	err := env.handler.HandleEvent(ctx, queue.CleanupEvent{Type: "account_banned", EntityID: 1})
	if err == nil {
		t.Fatal("Expected error for unknown event type, got nil")
	}
}

// =============================================================================
// Stream + Worker Integration Test
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)
	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

// TestStreamToWorkerIntegration tests the complete flow:
// Publisher -> Stream -> Consumer -> Handler -> Repositories
func TestStreamToWorkerIntegration(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()

	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)
	env := newTestEnv()

	videoID := int64(100)
	env.comments.AddComments(videoID, 2)
	env.likes.AddLikes(model.LikeTargetVideo, videoID, 3)
	env.lists.AddEntries(videoID, 1)
	env.history.AddRows(videoID, 2)

	if err := consumer.EnsureGroup(ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}

	event := queue.NewVideoDeletedEvent(videoID)
	msgID, err := publisher.Publish(ctx, queue.StreamCleanup, event)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	t.Logf("Published message: %s", msgID)

	messages, err := consumer.Read(ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup, "test-worker", 10, time.Second)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}

	msg := messages[0]
	if msg.Event.Type != queue.EventVideoDeleted || msg.Event.EntityID != videoID {
		t.Fatalf("Unexpected event: %+v", msg.Event)
	}

	if err := env.handler.HandleEvent(ctx, msg.Event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	if err := consumer.Ack(ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup, msg.ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	// Verify: no dangling state, no pending messages
	if _, ok := env.likes.likes[model.LikeTargetVideo][videoID]; ok {
		t.Error("Likes on deleted video should have been removed")
	}
	pending, _ := consumer.Pending(ctx, queue.StreamCleanup, queue.ConsumerGroupCleanup)
	if pending != 0 {
		t.Errorf("Expected 0 pending messages, got %d", pending)
	}
}
