package service

import (
	"context"
	"log"
	"strings"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/queue"
	"github.com/vidtube/backend/internal/repository"
)

// TweetService handles business logic for tweet operations
type TweetService struct {
	repo      repository.TweetRepository
	publisher queue.Publisher
}

func NewTweetService(repo repository.TweetRepository, publisher queue.Publisher) *TweetService {
	return &TweetService{
		repo:      repo,
		publisher: publisher,
	}
}

func validateTweetContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return model.ErrContentRequired
	}
	if len(content) > model.MaxTweetLength {
		return model.ErrContentTooLong
	}
	return nil
}

// Create posts a new tweet.
func (s *TweetService) Create(ctx context.Context, ownerID int64, content string) (*model.Tweet, error) {
	if err := validateTweetContent(content); err != nil {
		return nil, err
	}

	tweet := &model.Tweet{
		Content: strings.TrimSpace(content),
		OwnerID: ownerID,
	}
	if err := s.repo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// ListByUser returns all of a user's tweets, oldest first.
func (s *TweetService) ListByUser(ctx context.Context, userID int64) ([]model.Tweet, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update edits a tweet's content. Only the author may update.
func (s *TweetService) Update(ctx context.Context, tweetID, ownerID int64, content string) (*model.Tweet, error) {
	if err := validateTweetContent(content); err != nil {
		return nil, err
	}

	tweet, err := s.repo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.OwnerID != ownerID {
		return nil, model.ErrNotTweetOwner
	}

	return s.repo.Update(ctx, tweetID, strings.TrimSpace(content))
}

// Delete removes a tweet and emits a cleanup event for its likes. Only
// the author may delete.
func (s *TweetService) Delete(ctx context.Context, tweetID, ownerID int64) error {
	tweet, err := s.repo.GetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if tweet.OwnerID != ownerID {
		return model.ErrNotTweetOwner
	}

	if err := s.repo.Delete(ctx, tweetID); err != nil {
		return err
	}

	if _, err := s.publisher.Publish(ctx, queue.StreamCleanup, queue.NewTweetDeletedEvent(tweetID)); err != nil {
		log.Printf("[Tweet] cleanup event publish failed: tweet=%d err=%v", tweetID, err)
	}
	return nil
}
