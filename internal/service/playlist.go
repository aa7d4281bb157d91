package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/repository"
)

// PlaylistService handles business logic for playlist operations
type PlaylistService struct {
	repo      repository.PlaylistRepository
	videoRepo repository.VideoRepository
}

func NewPlaylistService(repo repository.PlaylistRepository, videoRepo repository.VideoRepository) *PlaylistService {
	return &PlaylistService{
		repo:      repo,
		videoRepo: videoRepo,
	}
}

// Create makes a new empty playlist.
func (s *PlaylistService) Create(ctx context.Context, ownerID int64, req *model.PlaylistRequest) (*model.Playlist, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	playlist := &model.Playlist{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Get fetches a playlist with its owner and ordered videos.
func (s *PlaylistService) Get(ctx context.Context, playlistID int64) (*model.Playlist, error) {
	return s.repo.GetByID(ctx, playlistID)
}

// ListByUser returns all of a user's playlists without their video lists.
func (s *PlaylistService) ListByUser(ctx context.Context, userID int64) ([]model.Playlist, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update edits name/description. Only the owner may update.
func (s *PlaylistService) Update(ctx context.Context, playlistID, ownerID int64, req *model.PlaylistRequest) (*model.Playlist, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	if err := s.assertOwner(ctx, playlistID, ownerID); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, playlistID, strings.TrimSpace(req.Name), req.Description)
}

// Delete removes a playlist and its membership rows. Only the owner may
// delete. The videos themselves are untouched.
func (s *PlaylistService) Delete(ctx context.Context, playlistID, ownerID int64) error {
	if err := s.assertOwner(ctx, playlistID, ownerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, playlistID)
}

// AddVideo appends a video to the playlist. Only the owner may add, the
// video must exist, and duplicates are rejected.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, ownerID int64) error {
	if err := s.assertOwner(ctx, playlistID, ownerID); err != nil {
		return err
	}
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return err
	}
	return s.repo.AddVideo(ctx, playlistID, videoID)
}

// RemoveVideo takes a video out of the playlist. Only the owner may remove.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, ownerID int64) error {
	if err := s.assertOwner(ctx, playlistID, ownerID); err != nil {
		return err
	}
	return s.repo.RemoveVideo(ctx, playlistID, videoID)
}

func (s *PlaylistService) assertOwner(ctx context.Context, playlistID, ownerID int64) error {
	playlist, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != ownerID {
		return model.ErrNotPlaylistOwner
	}
	return nil
}
