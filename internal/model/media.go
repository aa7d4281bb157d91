package model

import "errors"

// Upload limits and normalization targets.
const (
	MaxImageSizeBytes = 5 * 1024 * 1024
	MaxVideoSizeBytes = 512 * 1024 * 1024

	AvatarWidth  = 400
	AvatarHeight = 400
	CoverWidth   = 1280
	CoverHeight  = 360

	ThumbnailMaxWidth = 640

	ImageExt        = ".jpg"
	ContentTypeJPEG = "image/jpeg"

	AvatarFolder    = "avatars"
	CoverFolder     = "covers"
	VideoFolder     = "videos"
	ThumbnailFolder = "thumbnails"
)

// UploadResult describes a stored asset: its durable URL, the object key,
// and (for videos) duration and container format.
type UploadResult struct {
	URL      string  `json:"url"`
	Key      string  `json:"-"`
	Format   string  `json:"format,omitempty"`
	Duration float64 `json:"duration,omitempty"` // seconds
}

var (
	// ErrUploadFailed is the sentinel the media delegate returns on any
	// storage failure. Callers check it explicitly; the underlying error
	// is logged, not propagated.
	ErrUploadFailed = errors.New("media upload failed")

	ErrFileTooLarge     = errors.New("file exceeds size limit")
	ErrInvalidImageType = errors.New("unsupported image type")
	ErrInvalidVideoType = errors.New("unsupported video type")
)

// IsAllowedImageType reports whether the content type is an accepted
// image upload format.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// IsAllowedVideoType reports whether the content type is an accepted
// video upload format.
func IsAllowedVideoType(contentType string) bool {
	switch contentType {
	case "video/mp4", "video/webm", "video/quicktime", "video/x-matroska":
		return true
	}
	return false
}
