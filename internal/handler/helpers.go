package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/httputil"
	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/transport/http/middleware"
)

// uploadFn is the shape shared by every media upload method.
type uploadFn func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)

// uploadFormFile uploads an optional multipart field. Returns (nil, true)
// when the field is absent, (nil, false) after writing an error response,
// or the upload result.
func uploadFormFile(w http.ResponseWriter, r *http.Request, field string, upload uploadFn) (*model.UploadResult, bool) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid "+field+" upload")
		return nil, false
	}
	defer file.Close()

	result, err := upload(r.Context(), file, header)
	if err != nil {
		writeUploadError(w, field, err)
		return nil, false
	}
	return result, true
}

// writeUploadError maps media sentinels onto HTTP statuses.
func writeUploadError(w http.ResponseWriter, field string, err error) {
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequest(w, "Uploaded "+field+" exceeds the size limit")
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
	case errors.Is(err, model.ErrInvalidVideoType):
		httputil.WriteBadRequest(w, "Unsupported video type. Allowed: mp4, webm, mov, mkv")
	default:
		httputil.WriteInternalError(w, "Failed to upload "+field)
	}
}

// parseIDParam reads a positive int64 URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// viewerKey identifies the viewer for view dedup: the user ID when
// authenticated, otherwise the client IP.
func viewerKey(r *http.Request) string {
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%d", userID)
	}
	return "anon:" + clientIP(r)
}

// clientIP resolves the originating address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// setAuthCookies stores both tokens as HttpOnly cookies for browser
// clients. API clients read the same tokens from the response body.
func setAuthCookies(w http.ResponseWriter, pair *model.TokenPair, cfg *config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   cfg.AccessTokenMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   cfg.RefreshTokenMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"access_token", "refresh_token"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
	}
}
