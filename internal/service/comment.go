package service

import (
	"context"
	"log"
	"strings"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/queue"
	"github.com/vidtube/backend/internal/repository"
)

// CommentService handles business logic for comment operations
type CommentService struct {
	repo      repository.CommentRepository
	videoRepo repository.VideoRepository
	publisher queue.Publisher
}

func NewCommentService(repo repository.CommentRepository, videoRepo repository.VideoRepository, publisher queue.Publisher) *CommentService {
	return &CommentService{
		repo:      repo,
		videoRepo: videoRepo,
		publisher: publisher,
	}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return model.ErrContentTooLong
	}
	return nil
}

// Create adds a comment to an existing video.
func (s *CommentService) Create(ctx context.Context, videoID, ownerID int64, content string) (*model.Comment, error) {
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Content: strings.TrimSpace(content),
		VideoID: videoID,
		OwnerID: ownerID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByVideo returns one page of a video's comments, newest first.
func (s *CommentService) ListByVideo(ctx context.Context, videoID int64, p pagination.Params) ([]model.Comment, *pagination.Meta, error) {
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, nil, err
	}

	comments, total, err := s.repo.ListByVideo(ctx, videoID, p)
	if err != nil {
		return nil, nil, err
	}

	meta := pagination.NewMeta(total, p.Page, p.Limit)
	return comments, &meta, nil
}

// Update edits a comment's content. Only the author may update.
func (s *CommentService) Update(ctx context.Context, commentID, ownerID int64, content string) (*model.Comment, error) {
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != ownerID {
		return nil, model.ErrNotCommentOwner
	}

	return s.repo.Update(ctx, commentID, strings.TrimSpace(content))
}

// Delete removes a comment and emits a cleanup event for its likes. Only
// the author may delete.
func (s *CommentService) Delete(ctx context.Context, commentID, ownerID int64) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != ownerID {
		return model.ErrNotCommentOwner
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return err
	}

	if _, err := s.publisher.Publish(ctx, queue.StreamCleanup, queue.NewCommentDeletedEvent(commentID)); err != nil {
		log.Printf("[Comment] cleanup event publish failed: comment=%d err=%v", commentID, err)
	}
	return nil
}
