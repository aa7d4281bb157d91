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

// PlaylistHandler serves the /playlist endpoints.
type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create makes a new empty playlist.
// POST /playlist
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req model.PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteCreated(w, playlist, "Playlist created successfully")
}

// Get returns one playlist with its videos.
// GET /playlist/{playlistId}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlistID, err := parseIDParam(r, "playlistId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid playlist ID")
		return
	}

	playlist, err := h.playlistService.Get(r.Context(), playlistID)
	if err != nil {
		if errors.Is(err, model.ErrPlaylistNotFound) {
			httputil.WriteNotFound(w, "Playlist not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get playlist")
		return
	}

	httputil.WriteOK(w, playlist, "Playlist fetched successfully")
}

// ListByUser returns all of a user's playlists.
// GET /playlist/user/{userId}
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	playlists, err := h.playlistService.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get playlists")
		return
	}

	httputil.WriteOK(w, playlists, "Playlists fetched successfully")
}

// Update renames a playlist or changes its description.
// PATCH /playlist/{playlistId}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	playlistID, err := parseIDParam(r, "playlistId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid playlist ID")
		return
	}

	var req model.PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	playlist, err := h.playlistService.Update(r.Context(), playlistID, userID, &req)
	if err != nil {
		h.writePlaylistError(w, err, "Failed to update playlist")
		return
	}

	httputil.WriteOK(w, playlist, "Playlist updated successfully")
}

// Delete removes a playlist; its videos are untouched.
// DELETE /playlist/{playlistId}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	playlistID, err := parseIDParam(r, "playlistId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid playlist ID")
		return
	}

	if err := h.playlistService.Delete(r.Context(), playlistID, userID); err != nil {
		h.writePlaylistError(w, err, "Failed to delete playlist")
		return
	}

	httputil.WriteOK(w, nil, "Playlist deleted successfully")
}

// AddVideo appends a video to a playlist.
// PATCH /playlist/add/{videoId}/{playlistId}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videoID, playlistID, ok := h.parseVideoPlaylistIDs(w, r)
	if !ok {
		return
	}

	if err := h.playlistService.AddVideo(r.Context(), playlistID, videoID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrVideoAlreadyInList):
			httputil.WriteConflict(w, "Video is already in this playlist")
		default:
			h.writePlaylistError(w, err, "Failed to add video to playlist")
		}
		return
	}

	httputil.WriteOK(w, nil, "Video added to playlist successfully")
}

// RemoveVideo takes a video out of a playlist.
// PATCH /playlist/remove/{videoId}/{playlistId}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videoID, playlistID, ok := h.parseVideoPlaylistIDs(w, r)
	if !ok {
		return
	}

	if err := h.playlistService.RemoveVideo(r.Context(), playlistID, videoID, userID); err != nil {
		if errors.Is(err, model.ErrVideoNotInPlaylist) {
			httputil.WriteNotFound(w, "Video is not in this playlist")
			return
		}
		h.writePlaylistError(w, err, "Failed to remove video from playlist")
		return
	}

	httputil.WriteOK(w, nil, "Video removed from playlist successfully")
}

func (h *PlaylistHandler) parseVideoPlaylistIDs(w http.ResponseWriter, r *http.Request) (videoID, playlistID int64, ok bool) {
	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return 0, 0, false
	}
	playlistID, err = parseIDParam(r, "playlistId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid playlist ID")
		return 0, 0, false
	}
	return videoID, playlistID, true
}

func (h *PlaylistHandler) writePlaylistError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrPlaylistNotFound):
		httputil.WriteNotFound(w, "Playlist not found")
	case errors.Is(err, model.ErrNotPlaylistOwner):
		httputil.WriteForbidden(w, "You do not own this playlist")
	default:
		httputil.WriteInternalError(w, fallback)
	}
}
