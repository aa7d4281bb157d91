package service

import (
	"context"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository INTERFACES, so unit tests swap in mocks with
// per-test behavior via function fields. Unset fields return not-found/zero
// values, which keeps most test setups to a couple of lines.

type mockUserRepository struct {
	createFn              func(ctx context.Context, user *model.User) error
	getByIDFn             func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameOrEmail  func(ctx context.Context, username, email string) (*model.User, error)
	existsFn              func(ctx context.Context, username, email string) (bool, error)
	updateAccountFn       func(ctx context.Context, id int64, fullName, email string) (*model.User, error)
	updatePasswordFn      func(ctx context.Context, id int64, passwordHashed string) error
	updateAvatarFn        func(ctx context.Context, id int64, url, key string) (*model.User, error)
	updateCoverFn         func(ctx context.Context, id int64, url, key string) (*model.User, error)
	setRefreshTokenHashFn func(ctx context.Context, id int64, hash *string) error
	getChannelProfileFn   func(ctx context.Context, username string, viewerID *int64) (*model.ChannelProfile, error)
	deleteAccountFn       func(ctx context.Context, id int64) error

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	if m.getByUsernameOrEmail != nil {
		return m.getByUsernameOrEmail(ctx, username, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateAccount(ctx context.Context, id int64, fullName, email string) (*model.User, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(ctx, id, fullName, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHashed string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, passwordHashed)
	}
	return nil
}

func (m *mockUserRepository) UpdateAvatar(ctx context.Context, id int64, url, key string) (*model.User, error) {
	if m.updateAvatarFn != nil {
		return m.updateAvatarFn(ctx, id, url, key)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) UpdateCoverImage(ctx context.Context, id int64, url, key string) (*model.User, error) {
	if m.updateCoverFn != nil {
		return m.updateCoverFn(ctx, id, url, key)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	if m.setRefreshTokenHashFn != nil {
		return m.setRefreshTokenHashFn(ctx, id, hash)
	}
	return nil
}

func (m *mockUserRepository) GetChannelProfile(ctx context.Context, username string, viewerID *int64) (*model.ChannelProfile, error) {
	if m.getChannelProfileFn != nil {
		return m.getChannelProfileFn(ctx, username, viewerID)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(ctx, id)
	}
	return nil
}

type mockVideoRepository struct {
	createFn           func(ctx context.Context, video *model.Video) error
	getByIDFn          func(ctx context.Context, id int64) (*model.Video, error)
	getByIDWithOwnerFn func(ctx context.Context, id int64) (*model.Video, error)
	listFn             func(ctx context.Context, filter model.VideoFilter, p pagination.Params) ([]model.Video, int, error)
	updateFn           func(ctx context.Context, video *model.Video) error
	deleteFn           func(ctx context.Context, id int64) error
	setPublishedFn     func(ctx context.Context, id int64, published bool) error
	incrementViewsFn   func(ctx context.Context, id int64) error
	channelStatsFn     func(ctx context.Context, ownerID int64) (*model.ChannelStats, error)

	incrementCalls []int64
	deleteCalls    []int64
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrVideoNotFound
}

func (m *mockVideoRepository) GetByIDWithOwner(ctx context.Context, id int64) (*model.Video, error) {
	if m.getByIDWithOwnerFn != nil {
		return m.getByIDWithOwnerFn(ctx, id)
	}
	return nil, model.ErrVideoNotFound
}

func (m *mockVideoRepository) List(ctx context.Context, filter model.VideoFilter, p pagination.Params) ([]model.Video, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, p)
	}
	return nil, 0, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, video *model.Video) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockVideoRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	if m.setPublishedFn != nil {
		return m.setPublishedFn(ctx, id, published)
	}
	return nil
}

func (m *mockVideoRepository) IncrementViews(ctx context.Context, id int64) error {
	m.incrementCalls = append(m.incrementCalls, id)
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, id)
	}
	return nil
}

func (m *mockVideoRepository) DeleteByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	return nil, nil
}

func (m *mockVideoRepository) ChannelStats(ctx context.Context, ownerID int64) (*model.ChannelStats, error) {
	if m.channelStatsFn != nil {
		return m.channelStatsFn(ctx, ownerID)
	}
	return &model.ChannelStats{}, nil
}

type mockWatchHistoryRepository struct {
	recordFn func(ctx context.Context, userID, videoID int64) error
	listFn   func(ctx context.Context, userID int64, p pagination.Params) ([]model.WatchHistoryEntry, int, error)

	recordCalls [][2]int64
}

func (m *mockWatchHistoryRepository) Record(ctx context.Context, userID, videoID int64) error {
	m.recordCalls = append(m.recordCalls, [2]int64{userID, videoID})
	if m.recordFn != nil {
		return m.recordFn(ctx, userID, videoID)
	}
	return nil
}

func (m *mockWatchHistoryRepository) List(ctx context.Context, userID int64, p pagination.Params) ([]model.WatchHistoryEntry, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, p)
	}
	return nil, 0, nil
}

func (m *mockWatchHistoryRepository) DeleteForVideo(ctx context.Context, videoID int64) (int64, error) {
	return 0, nil
}

func (m *mockWatchHistoryRepository) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

type mockLikeRepository struct {
	insertFn func(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error)
	deleteFn func(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error)
	listFn   func(ctx context.Context, ownerID int64) ([]model.LikedVideo, error)
}

func (m *mockLikeRepository) Insert(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, target, targetID, ownerID)
	}
	return true, nil
}

func (m *mockLikeRepository) Delete(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, target, targetID, ownerID)
	}
	return false, nil
}

func (m *mockLikeRepository) ListLikedVideos(ctx context.Context, ownerID int64) ([]model.LikedVideo, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockLikeRepository) DeleteForTarget(ctx context.Context, target model.LikeTarget, targetID int64) (int64, error) {
	return 0, nil
}

func (m *mockLikeRepository) DeleteForVideoComments(ctx context.Context, videoID int64) (int64, error) {
	return 0, nil
}

func (m *mockLikeRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	return 0, nil
}

func (m *mockLikeRepository) DeleteForOwnerComments(ctx context.Context, ownerID int64) (int64, error) {
	return 0, nil
}

func (m *mockLikeRepository) DeleteForOwnerTweets(ctx context.Context, ownerID int64) (int64, error) {
	return 0, nil
}

type mockCommentRepository struct {
	createFn  func(ctx context.Context, comment *model.Comment) error
	getByIDFn func(ctx context.Context, id int64) (*model.Comment, error)
	deleteFn  func(ctx context.Context, id int64) error
	updateFn  func(ctx context.Context, id int64, content string) (*model.Comment, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByVideo(ctx context.Context, videoID int64, p pagination.Params) ([]model.Comment, int, error) {
	return nil, 0, nil
}

func (m *mockCommentRepository) Update(ctx context.Context, id int64, content string) (*model.Comment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, content)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCommentRepository) DeleteByVideo(ctx context.Context, videoID int64) (int64, error) {
	return 0, nil
}

func (m *mockCommentRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	return 0, nil
}

type mockTweetRepository struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Tweet, error)
}

func (m *mockTweetRepository) Create(ctx context.Context, tweet *model.Tweet) error { return nil }

func (m *mockTweetRepository) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrTweetNotFound
}

func (m *mockTweetRepository) ListByUser(ctx context.Context, userID int64) ([]model.Tweet, error) {
	return nil, nil
}

func (m *mockTweetRepository) Update(ctx context.Context, id int64, content string) (*model.Tweet, error) {
	return nil, model.ErrTweetNotFound
}

func (m *mockTweetRepository) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockTweetRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	return 0, nil
}

type mockSubscriptionRepository struct {
	insertFn func(ctx context.Context, subscriberID, channelID int64) (bool, error)
	deleteFn func(ctx context.Context, subscriberID, channelID int64) (bool, error)
}

func (m *mockSubscriptionRepository) Insert(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, subscriberID, channelID)
	}
	return true, nil
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subscriberID, channelID)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) ListSubscribers(ctx context.Context, channelID int64) ([]model.Subscriber, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) ListSubscribed(ctx context.Context, subscriberID int64) ([]model.SubscribedChannel, error) {
	return nil, nil
}

func (m *mockSubscriptionRepository) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

// =============================================================================
// MOCK COLLABORATORS
// =============================================================================

type mockViewGuard struct {
	shouldCountFn func(ctx context.Context, videoID int64, viewerKey string) (bool, error)
}

func (m *mockViewGuard) ShouldCount(ctx context.Context, videoID int64, viewerKey string) (bool, error) {
	if m.shouldCountFn != nil {
		return m.shouldCountFn(ctx, videoID, viewerKey)
	}
	return true, nil
}

type mockPublisher struct {
	published []queue.CleanupEvent
	publishFn func(ctx context.Context, stream string, event queue.CleanupEvent) (string, error)
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.CleanupEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "0-0", nil
}
