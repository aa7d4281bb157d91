package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// CommentHandler serves the /comments endpoints.
type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type commentRequest struct {
	Content string `json:"content"`
}

// Create adds a comment to a video.
// POST /comments/{videoId}
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), videoID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment content is too long")
		default:
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteCreated(w, comment, "Comment created successfully")
}

// ListByVideo returns a page of a video's comments.
// GET /comments/{videoId}
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	comments, meta, err := h.commentService.ListByVideo(r.Context(), videoID, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteOK(w, map[string]interface{}{
		"comments":   comments,
		"pagination": meta,
	}, "Comments fetched successfully")
}

// Update edits a comment's content.
// PATCH /comments/c/{commentId}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	commentID, err := parseIDParam(r, "commentId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(r.Context(), commentID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You do not own this comment")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment content is too long")
		default:
			httputil.WriteInternalError(w, "Failed to update comment")
		}
		return
	}

	httputil.WriteOK(w, comment, "Comment updated successfully")
}

// Delete removes a comment and queues the cleanup of its likes.
// DELETE /comments/c/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	commentID, err := parseIDParam(r, "commentId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "You do not own this comment")
		default:
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteOK(w, nil, "Comment deleted successfully")
}
