package service

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/repository"
)

// LikeService handles toggle-style likes across videos, comments, and tweets.
type LikeService struct {
	repo        repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
}

func NewLikeService(
	repo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
) *LikeService {
	return &LikeService{
		repo:        repo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// Toggle flips the like state for (owner, target). Delete-first: if a like
// existed it is removed, otherwise one is inserted. A concurrent duplicate
// insert lands on the unique index and reports "added" as well, so racing
// togglers never see an error.
func (s *LikeService) Toggle(ctx context.Context, target model.LikeTarget, targetID, ownerID int64) (*model.ToggleResult, error) {
	if err := s.assertTargetExists(ctx, target, targetID); err != nil {
		return nil, err
	}

	removed, err := s.repo.Delete(ctx, target, targetID, ownerID)
	if err != nil {
		return nil, err
	}
	if removed {
		return &model.ToggleResult{State: model.ToggleRemoved}, nil
	}

	if _, err := s.repo.Insert(ctx, target, targetID, ownerID); err != nil {
		return nil, err
	}
	return &model.ToggleResult{State: model.ToggleAdded}, nil
}

// ListLikedVideos returns the videos the user has liked, newest like first.
func (s *LikeService) ListLikedVideos(ctx context.Context, ownerID int64) ([]model.LikedVideo, error) {
	return s.repo.ListLikedVideos(ctx, ownerID)
}

// assertTargetExists resolves the target entity so a like can never be
// created against a missing row.
func (s *LikeService) assertTargetExists(ctx context.Context, target model.LikeTarget, targetID int64) error {
	var err error
	switch target {
	case model.LikeTargetVideo:
		_, err = s.videoRepo.GetByID(ctx, targetID)
	case model.LikeTargetComment:
		_, err = s.commentRepo.GetByID(ctx, targetID)
	case model.LikeTargetTweet:
		_, err = s.tweetRepo.GetByID(ctx, targetID)
	default:
		return fmt.Errorf("unknown like target %q", target)
	}
	if err != nil {
		return model.ErrLikeTargetNotFound
	}
	return nil
}
