package handler

import (
	"net/http"

	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// DashboardHandler serves the channel-owner /dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the caller's channel aggregates.
// GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	stats, err := h.dashboardService.Stats(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get channel stats")
		return
	}

	httputil.WriteOK(w, stats, "Channel stats fetched successfully")
}

// Videos returns a page of the caller's videos, published or not.
// GET /dashboard/videos
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videos, meta, err := h.dashboardService.Videos(r.Context(), userID, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get channel videos")
		return
	}

	httputil.WriteOK(w, map[string]interface{}{
		"videos":     videos,
		"pagination": meta,
	}, "Channel videos fetched successfully")
}
