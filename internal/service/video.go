package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/vidtube/backend/internal/cache"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/queue"
	"github.com/vidtube/backend/internal/repository"
)

// VideoService handles business logic for video operations
type VideoService struct {
	repo        repository.VideoRepository
	historyRepo repository.WatchHistoryRepository
	viewGuard   cache.ViewGuard
	publisher   queue.Publisher
}

func NewVideoService(
	repo repository.VideoRepository,
	historyRepo repository.WatchHistoryRepository,
	viewGuard cache.ViewGuard,
	publisher queue.Publisher,
) *VideoService {
	return &VideoService{
		repo:        repo,
		historyRepo: historyRepo,
		viewGuard:   viewGuard,
		publisher:   publisher,
	}
}

// List returns one page of videos. Anonymous listings and listings of
// other users' channels only show published videos; owners browsing their
// own uploads see everything.
func (s *VideoService) List(ctx context.Context, ownerID, viewerID *int64, p pagination.Params) ([]model.Video, *pagination.Meta, error) {
	filter := model.VideoFilter{
		Query:         p.Query,
		OwnerID:       ownerID,
		PublishedOnly: true,
	}
	if ownerID != nil && viewerID != nil && *ownerID == *viewerID {
		filter.PublishedOnly = false
	}

	videos, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, nil, err
	}

	meta := pagination.NewMeta(total, p.Page, p.Limit)
	return videos, &meta, nil
}

// Publish stores a new video record from uploaded assets. The video is
// live immediately; TogglePublish takes it down.
func (s *VideoService) Publish(ctx context.Context, ownerID int64, title, description string, video *model.UploadResult, thumbnail *model.UploadResult) (*model.Video, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if video == nil {
		return nil, fmt.Errorf("video file is required")
	}

	v := &model.Video{
		Title:       title,
		Description: description,
		VideoURL:    video.URL,
		VideoKey:    video.Key,
		Duration:    video.Duration,
		Format:      video.Format,
		IsPublished: true,
		OwnerID:     ownerID,
	}
	if thumbnail != nil {
		v.ThumbnailURL = &thumbnail.URL
		v.ThumbnailKey = &thumbnail.Key
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Get fetches a single video with its owner joined. Unpublished videos are
// only visible to their owner. A qualifying view bumps the counter and,
// for authenticated viewers, records watch history; both are best-effort
// and never fail the read.
func (s *VideoService) Get(ctx context.Context, videoID int64, viewerID *int64, viewerKey string) (*model.Video, error) {
	video, err := s.repo.GetByIDWithOwner(ctx, videoID)
	if err != nil {
		return nil, err
	}

	isOwner := viewerID != nil && *viewerID == video.OwnerID
	if !video.IsPublished && !isOwner {
		return nil, model.ErrVideoNotFound
	}

	if viewerKey != "" {
		count, err := s.viewGuard.ShouldCount(ctx, videoID, viewerKey)
		if err != nil {
			log.Printf("[Video] view dedup check failed: video=%d err=%v", videoID, err)
		} else if count {
			if err := s.repo.IncrementViews(ctx, videoID); err != nil {
				log.Printf("[Video] view increment failed: video=%d err=%v", videoID, err)
			} else {
				video.Views++
			}
		}
	}

	if viewerID != nil {
		if err := s.historyRepo.Record(ctx, *viewerID, videoID); err != nil {
			log.Printf("[Video] watch history record failed: user=%d video=%d err=%v", *viewerID, videoID, err)
		}
	}

	return video, nil
}

// Update edits title/description and optionally swaps the thumbnail. Only
// the owner may update. Returns the updated video and the previous
// thumbnail key when it was replaced.
func (s *VideoService) Update(ctx context.Context, videoID, ownerID int64, req *model.UpdateVideoRequest, thumbnail *model.UploadResult) (*model.Video, string, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, "", err
	}
	if video.OwnerID != ownerID {
		return nil, "", model.ErrNotVideoOwner
	}

	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" && thumbnail == nil {
		return nil, "", fmt.Errorf("nothing to update")
	}

	if req.Title != "" {
		video.Title = req.Title
	}
	if req.Description != "" {
		video.Description = req.Description
	}

	oldThumbKey := ""
	if thumbnail != nil {
		if video.ThumbnailKey != nil {
			oldThumbKey = *video.ThumbnailKey
		}
		video.ThumbnailURL = &thumbnail.URL
		video.ThumbnailKey = &thumbnail.Key
	}

	if err := s.repo.Update(ctx, video); err != nil {
		return nil, "", err
	}
	return video, oldThumbKey, nil
}

// Delete removes a video and emits a cleanup event for its dangling
// references. Returns the stored object keys so the caller can delete the
// media assets. Only the owner may delete.
func (s *VideoService) Delete(ctx context.Context, videoID, ownerID int64) (videoKey, thumbnailKey string, err error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return "", "", err
	}
	if video.OwnerID != ownerID {
		return "", "", model.ErrNotVideoOwner
	}

	if err := s.repo.Delete(ctx, videoID); err != nil {
		return "", "", err
	}

	// References are cleaned asynchronously; readers never see them thanks
	// to the strict joins in the list queries.
	if _, err := s.publisher.Publish(ctx, queue.StreamCleanup, queue.NewVideoDeletedEvent(videoID)); err != nil {
		log.Printf("[Video] cleanup event publish failed: video=%d err=%v", videoID, err)
	}

	thumbKey := ""
	if video.ThumbnailKey != nil {
		thumbKey = *video.ThumbnailKey
	}
	return video.VideoKey, thumbKey, nil
}

// TogglePublish flips a video's publish status. Only the owner may toggle.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, ownerID int64) (bool, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return false, err
	}
	if video.OwnerID != ownerID {
		return false, model.ErrNotVideoOwner
	}

	next := !video.IsPublished
	if err := s.repo.SetPublished(ctx, videoID, next); err != nil {
		return false, err
	}
	return next, nil
}
