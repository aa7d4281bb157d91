package service

import (
	"context"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/repository"
)

// DashboardService assembles the channel owner's dashboard: aggregate
// stats plus the full upload list including unpublished videos.
type DashboardService struct {
	videoRepo repository.VideoRepository
}

func NewDashboardService(videoRepo repository.VideoRepository) *DashboardService {
	return &DashboardService{videoRepo: videoRepo}
}

// Stats returns the channel aggregates for the authenticated owner.
func (s *DashboardService) Stats(ctx context.Context, ownerID int64) (*model.ChannelStats, error) {
	return s.videoRepo.ChannelStats(ctx, ownerID)
}

// Videos returns one page of the owner's uploads, published or not.
func (s *DashboardService) Videos(ctx context.Context, ownerID int64, p pagination.Params) ([]model.Video, *pagination.Meta, error) {
	filter := model.VideoFilter{
		OwnerID:       &ownerID,
		PublishedOnly: false,
	}

	videos, total, err := s.videoRepo.List(ctx, filter, p)
	if err != nil {
		return nil, nil, err
	}

	meta := pagination.NewMeta(total, p.Page, p.Limit)
	return videos, &meta, nil
}
