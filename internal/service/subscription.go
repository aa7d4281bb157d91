package service

import (
	"context"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/repository"
)

// SubscriptionService handles channel subscription toggles and listings.
type SubscriptionService struct {
	repo     repository.SubscriptionRepository
	userRepo repository.UserRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository, userRepo repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Toggle flips the subscription state for (subscriber, channel).
// Self-subscription is rejected. Same delete-first race handling as likes:
// a concurrent duplicate insert reports "added".
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID int64) (*model.ToggleResult, error) {
	if subscriberID == channelID {
		return nil, model.ErrCannotSubscribeSelf
	}

	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}

	removed, err := s.repo.Delete(ctx, subscriberID, channelID)
	if err != nil {
		return nil, err
	}
	if removed {
		return &model.ToggleResult{State: model.ToggleRemoved}, nil
	}

	if _, err := s.repo.Insert(ctx, subscriberID, channelID); err != nil {
		return nil, err
	}
	return &model.ToggleResult{State: model.ToggleAdded}, nil
}

// ListSubscribers returns everyone subscribed to a channel, newest first.
func (s *SubscriptionService) ListSubscribers(ctx context.Context, channelID int64) ([]model.Subscriber, error) {
	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}
	return s.repo.ListSubscribers(ctx, channelID)
}

// ListSubscribed returns the channels a user subscribes to, newest first.
func (s *SubscriptionService) ListSubscribed(ctx context.Context, subscriberID int64) ([]model.SubscribedChannel, error) {
	if _, err := s.userRepo.GetByID(ctx, subscriberID); err != nil {
		return nil, err
	}
	return s.repo.ListSubscribed(ctx, subscriberID)
}
