package handler

import (
	"errors"
	"net/http"

	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// SubscriptionHandler serves the /subscriptions endpoints.
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Toggle flips the caller's subscription to a channel.
// POST /subscriptions/c/{channelId}
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	channelID, err := parseIDParam(r, "channelId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid channel ID")
		return
	}

	result, err := h.subscriptionService.Toggle(r.Context(), userID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCannotSubscribeSelf):
			httputil.WriteBadRequest(w, "You cannot subscribe to your own channel")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "Channel not found")
		default:
			httputil.WriteInternalError(w, "Failed to toggle subscription")
		}
		return
	}

	message := "Unsubscribed successfully"
	if result.State == model.ToggleAdded {
		message = "Subscribed successfully"
	}
	httputil.WriteOK(w, result, message)
}

// Subscribers lists the users subscribed to a channel.
// GET /subscriptions/c/{channelId}
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := parseIDParam(r, "channelId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid channel ID")
		return
	}

	subscribers, err := h.subscriptionService.ListSubscribers(r.Context(), channelID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "Channel not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get subscribers")
		return
	}

	httputil.WriteOK(w, subscribers, "Subscribers fetched successfully")
}

// Subscribed lists the channels a user subscribes to.
// GET /subscriptions/u/{subscriberId}
func (h *SubscriptionHandler) Subscribed(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := parseIDParam(r, "subscriberId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid subscriber ID")
		return
	}

	channels, err := h.subscriptionService.ListSubscribed(r.Context(), subscriberID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get subscribed channels")
		return
	}

	httputil.WriteOK(w, channels, "Subscribed channels fetched successfully")
}
