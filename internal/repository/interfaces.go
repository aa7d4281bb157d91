package repository

import (
	"context"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateAccount(ctx context.Context, id int64, fullName, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHashed string) error
	UpdateAvatar(ctx context.Context, id int64, url, key string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, id int64, url, key string) (*model.User, error)
	// SetRefreshTokenHash persists the single active refresh credential.
	// A nil hash clears it (logout). No other fields are touched.
	SetRefreshTokenHash(ctx context.Context, id int64, hash *string) error
	// GetChannelProfile assembles the denormalized channel view: subscriber
	// count, subscribed-to count, and whether the viewer subscribes.
	GetChannelProfile(ctx context.Context, username string, viewerID *int64) (*model.ChannelProfile, error)
	Delete(ctx context.Context, id int64) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id int64) (*model.Video, error)
	// GetByIDWithOwner joins the owner summary (strict join: a missing owner
	// row surfaces as not-found).
	GetByIDWithOwner(ctx context.Context, id int64) (*model.Video, error)
	// List returns one page of joined, projected videos plus the total count
	// for the same filter.
	List(ctx context.Context, filter model.VideoFilter, p pagination.Params) ([]model.Video, int, error)
	Update(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, id int64) error
	SetPublished(ctx context.Context, id int64, published bool) error
	IncrementViews(ctx context.Context, id int64) error
	ChannelStats(ctx context.Context, ownerID int64) (*model.ChannelStats, error)
	// DeleteByOwner removes every video a deleted user uploaded and returns
	// the removed IDs so their own cleanup can be fanned out.
	DeleteByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	// ListByVideo joins owner details (strict join) and paginates newest-first.
	ListByVideo(ctx context.Context, videoID int64, p pagination.Params) ([]model.Comment, int, error)
	Update(ctx context.Context, id int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByVideo removes all comments on a video (cleanup worker).
	DeleteByVideo(ctx context.Context, videoID int64) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, id int64) (*model.Tweet, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Tweet, error)
	Update(ctx context.Context, id int64, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type LikeRepository interface {
	// Insert adds a like; returns false when the (owner, target) pair already
	// exists. ON CONFLICT DO NOTHING is the race guard, so a concurrent
	// duplicate reports false here, never an error.
	Insert(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error)
	// Delete removes a like; returns false when no matching row existed.
	Delete(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (bool, error)
	ListLikedVideos(ctx context.Context, ownerID int64) ([]model.LikedVideo, error)
	DeleteForTarget(ctx context.Context, target model.LikeTarget, targetID int64) (int64, error)
	// DeleteForVideoComments removes likes on every comment of a video.
	// Must run before the comments themselves are deleted.
	DeleteForVideoComments(ctx context.Context, videoID int64) (int64, error)
	// DeleteForOwnerComments and DeleteForOwnerTweets remove likes other
	// users left on a deleted user's content. Must run before the content
	// rows themselves are deleted.
	DeleteForOwnerComments(ctx context.Context, ownerID int64) (int64, error)
	DeleteForOwnerTweets(ctx context.Context, ownerID int64) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type SubscriptionRepository interface {
	Insert(ctx context.Context, subscriberID, channelID int64) (bool, error)
	Delete(ctx context.Context, subscriberID, channelID int64) (bool, error)
	ListSubscribers(ctx context.Context, channelID int64) ([]model.Subscriber, error)
	ListSubscribed(ctx context.Context, subscriberID int64) ([]model.SubscribedChannel, error)
	DeleteForUser(ctx context.Context, userID int64) (int64, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	// GetByID joins the owner summary and the full ordered video list.
	GetByID(ctx context.Context, id int64) (*model.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Playlist, error)
	Update(ctx context.Context, id int64, name, description string) (*model.Playlist, error)
	Delete(ctx context.Context, id int64) error
	AddVideo(ctx context.Context, playlistID, videoID int64) error
	RemoveVideo(ctx context.Context, playlistID, videoID int64) error
	// RemoveVideoEverywhere pulls a deleted video out of all playlists
	// (cleanup worker).
	RemoveVideoEverywhere(ctx context.Context, videoID int64) (int64, error)
}

type WatchHistoryRepository interface {
	// Record upserts a watch event, bumping watched_at for repeat views.
	Record(ctx context.Context, userID, videoID int64) error
	// List returns the most-recent-first history with joined video and owner.
	List(ctx context.Context, userID int64, p pagination.Params) ([]model.WatchHistoryEntry, int, error)
	DeleteForVideo(ctx context.Context, videoID int64) (int64, error)
	DeleteForUser(ctx context.Context, userID int64) (int64, error)
}
