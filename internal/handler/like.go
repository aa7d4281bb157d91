package handler

import (
	"errors"
	"net/http"

	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// LikeHandler serves the /likes endpoints.
type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// ToggleVideo flips the caller's like on a video.
// POST /likes/toggle/v/{videoId}
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.LikeTargetVideo, "videoId")
}

// ToggleComment flips the caller's like on a comment.
// POST /likes/toggle/c/{commentId}
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.LikeTargetComment, "commentId")
}

// ToggleTweet flips the caller's like on a tweet.
// POST /likes/toggle/t/{tweetId}
func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.LikeTargetTweet, "tweetId")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target model.LikeTarget, param string) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	targetID, err := parseIDParam(r, param)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid "+string(target)+" ID")
		return
	}

	result, err := h.likeService.Toggle(r.Context(), target, targetID, userID)
	if err != nil {
		if errors.Is(err, model.ErrLikeTargetNotFound) {
			httputil.WriteNotFound(w, "Like target not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	message := "Like removed successfully"
	if result.State == model.ToggleAdded {
		message = "Like added successfully"
	}
	httputil.WriteOK(w, result, message)
}

// LikedVideos lists the videos the caller has liked, newest like first.
// GET /likes/videos
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videos, err := h.likeService.ListLikedVideos(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get liked videos")
		return
	}

	httputil.WriteOK(w, videos, "Liked videos fetched successfully")
}
