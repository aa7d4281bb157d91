package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// TweetHandler serves the /tweets endpoints.
type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create posts a new tweet.
// POST /tweets
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	tweet, err := h.tweetService.Create(r.Context(), userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Tweet content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Tweet content is too long")
		default:
			httputil.WriteInternalError(w, "Failed to create tweet")
		}
		return
	}

	httputil.WriteCreated(w, tweet, "Tweet created successfully")
}

// ListByUser returns all tweets by one user, newest first.
// GET /tweets/user/{userId}
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	tweets, err := h.tweetService.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get tweets")
		return
	}

	httputil.WriteOK(w, tweets, "Tweets fetched successfully")
}

// Update edits a tweet's content.
// PATCH /tweets/{tweetId}
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	tweetID, err := parseIDParam(r, "tweetId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid tweet ID")
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	tweet, err := h.tweetService.Update(r.Context(), tweetID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTweetNotFound):
			httputil.WriteNotFound(w, "Tweet not found")
		case errors.Is(err, model.ErrNotTweetOwner):
			httputil.WriteForbidden(w, "You do not own this tweet")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Tweet content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Tweet content is too long")
		default:
			httputil.WriteInternalError(w, "Failed to update tweet")
		}
		return
	}

	httputil.WriteOK(w, tweet, "Tweet updated successfully")
}

// Delete removes a tweet and queues the cleanup of its likes.
// DELETE /tweets/{tweetId}
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	tweetID, err := parseIDParam(r, "tweetId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid tweet ID")
		return
	}

	if err := h.tweetService.Delete(r.Context(), tweetID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrTweetNotFound):
			httputil.WriteNotFound(w, "Tweet not found")
		case errors.Is(err, model.ErrNotTweetOwner):
			httputil.WriteForbidden(w, "You do not own this tweet")
		default:
			httputil.WriteInternalError(w, "Failed to delete tweet")
		}
		return
	}

	httputil.WriteOK(w, nil, "Tweet deleted successfully")
}
