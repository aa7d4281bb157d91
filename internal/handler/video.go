package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/service"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// VideoHandler serves the /videos endpoints.
type VideoHandler struct {
	videoService *service.VideoService
	mediaService *service.MediaService
}

func NewVideoHandler(videoService *service.VideoService, mediaService *service.MediaService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		mediaService: mediaService,
	}
}

// List returns a page of videos. An optional userId query parameter
// scopes the listing to one channel; owners see their own unpublished
// videos, everyone else only sees published ones.
// GET /videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromQuery(r.URL.Query())

	var ownerID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("userId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteBadRequest(w, "Invalid userId")
			return
		}
		ownerID = &id
	}

	videos, meta, err := h.videoService.List(r.Context(), ownerID, middleware.UserIDPtr(r.Context()), p)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get videos")
		return
	}

	httputil.WriteOK(w, map[string]interface{}{
		"videos":     videos,
		"pagination": meta,
	}, "Videos fetched successfully")
}

// Publish uploads a new video with its thumbnail.
// POST /videos
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	maxFormSize := int64(model.MaxVideoSizeBytes) + int64(model.MaxImageSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequest(w, "Upload exceeds the size limit")
			return
		}
		httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		httputil.WriteBadRequest(w, "Title is required")
		return
	}

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		httputil.WriteBadRequest(w, "videoFile is required")
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := r.FormFile("thumbnail")
	if err != nil {
		httputil.WriteBadRequest(w, "thumbnail is required")
		return
	}
	defer thumbFile.Close()

	videoResult, err := h.mediaService.UploadVideo(r.Context(), videoFile, videoHeader)
	if err != nil {
		writeUploadError(w, "videoFile", err)
		return
	}

	thumbResult, err := h.mediaService.UploadThumbnail(r.Context(), thumbFile, thumbHeader)
	if err != nil {
		// The video object is already in the bucket; remove it so a
		// rejected thumbnail does not leave a half-published upload.
		if delErr := h.mediaService.DeleteObject(r.Context(), videoResult.Key); delErr != nil {
			log.Printf("[Video] rollback video object failed: key=%s err=%v", videoResult.Key, delErr)
		}
		writeUploadError(w, "thumbnail", err)
		return
	}

	video, err := h.videoService.Publish(r.Context(), userID, title, description, videoResult, thumbResult)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to publish video")
		return
	}

	httputil.WriteCreated(w, video, "Video published successfully")
}

// Get returns a single video and counts the view.
// GET /videos/{videoId}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	video, err := h.videoService.Get(r.Context(), videoID, middleware.UserIDPtr(r.Context()), viewerKey(r))
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get video")
		return
	}

	httputil.WriteOK(w, video, "Video fetched successfully")
}

// Update edits title, description and/or the thumbnail.
// PATCH /videos/{videoId}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		return
	}

	req := model.UpdateVideoRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	thumbResult, ok := uploadFormFile(w, r, "thumbnail", h.mediaService.UploadThumbnail)
	if !ok {
		return
	}

	video, oldThumbKey, err := h.videoService.Update(r.Context(), videoID, userID, &req, thumbResult)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoOwner):
			httputil.WriteForbidden(w, "You do not own this video")
		default:
			httputil.WriteBadRequest(w, err.Error())
		}
		return
	}

	if oldThumbKey != "" {
		if err := h.mediaService.DeleteObject(r.Context(), oldThumbKey); err != nil {
			log.Printf("[Video] delete old thumbnail failed: key=%s err=%v", oldThumbKey, err)
		}
	}

	httputil.WriteOK(w, video, "Video updated successfully")
}

// Delete removes the video row and its stored objects, then queues the
// dependent-row cleanup.
// DELETE /videos/{videoId}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	videoKey, thumbnailKey, err := h.videoService.Delete(r.Context(), videoID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoOwner):
			httputil.WriteForbidden(w, "You do not own this video")
		default:
			httputil.WriteInternalError(w, "Failed to delete video")
		}
		return
	}

	for _, key := range []string{videoKey, thumbnailKey} {
		if key == "" {
			continue
		}
		if err := h.mediaService.DeleteObject(r.Context(), key); err != nil {
			log.Printf("[Video] delete object failed: key=%s err=%v", key, err)
		}
	}

	httputil.WriteOK(w, nil, "Video deleted successfully")
}

// TogglePublish flips the published flag.
// PATCH /videos/toggle/publish/{videoId}
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	published, err := h.videoService.TogglePublish(r.Context(), videoID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoOwner):
			httputil.WriteForbidden(w, "You do not own this video")
		default:
			httputil.WriteInternalError(w, "Failed to toggle publish status")
		}
		return
	}

	message := "Video unpublished successfully"
	if published {
		message = "Video published successfully"
	}
	httputil.WriteOK(w, map[string]interface{}{"isPublished": published}, message)
}

// Stream proxies one byte range of the video object so browsers can
// seek. A Range header is mandatory. The envelope is skipped here on
// purpose; the body is raw media.
// GET /videos/{videoId}/stream
func (h *VideoHandler) Stream(w http.ResponseWriter, r *http.Request) {
	videoID, err := parseIDParam(r, "videoId")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		httputil.WriteBadRequest(w, "Range header is required")
		return
	}

	video, err := h.videoService.Get(r.Context(), videoID, middleware.UserIDPtr(r.Context()), viewerKey(r))
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get video")
		return
	}

	mr, err := h.mediaService.StreamRange(r.Context(), video.VideoKey, rangeHeader)
	if err != nil {
		log.Printf("[Video] stream failed: id=%d key=%s err=%v", videoID, video.VideoKey, err)
		httputil.WriteInternalError(w, "Failed to stream video")
		return
	}
	defer mr.Body.Close()

	w.Header().Set("Accept-Ranges", "bytes")
	if mr.ContentType != "" {
		w.Header().Set("Content-Type", mr.ContentType)
	}
	if mr.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(mr.ContentLength, 10))
	}
	if mr.Partial {
		w.Header().Set("Content-Range", mr.ContentRange)
		w.WriteHeader(http.StatusPartialContent)
	}

	if _, err := io.Copy(w, mr.Body); err != nil {
		// The client closing mid-stream lands here; nothing to do but log.
		log.Printf("[Video] stream copy interrupted: id=%d err=%v", videoID, err)
	}
}
