package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/vidtube/backend/internal/config"
	domain "github.com/vidtube/backend/internal/model"
)

// MediaService handles media uploads to S3-compatible object storage.
// Images are normalized in memory; videos are staged to a temp file so
// they can be probed for duration before the multipart upload starts.
type MediaService struct {
	s3Client  *s3.Client
	uploader  *manager.Uploader
	bucket    string
	publicURL string
	tempDir   string
}

// NewMediaService constructs an S3 client from static credentials. A
// custom endpoint switches to path-style addressing for MinIO and other
// S3-compatible stores.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "" || cfg.S3BucketName == "" || cfg.S3PublicURL == "" {
		return nil, fmt.Errorf("missing object storage configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &MediaService{
		s3Client:  s3Client,
		uploader:  manager.NewUploader(s3Client),
		bucket:    cfg.S3BucketName,
		publicURL: strings.TrimSuffix(cfg.S3PublicURL, "/"),
		tempDir:   cfg.UploadTempDir,
	}, nil
}

// UploadAvatar enforces size/type, normalizes to a square JPEG, and uploads.
func (s *MediaService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	data, _, err := readAndValidateImage(file, header, domain.MaxImageSizeBytes)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, domain.AvatarWidth, domain.AvatarHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", domain.AvatarFolder, uuid.NewString(), domain.ImageExt)
	if err := s.putObject(ctx, key, jpegBytes, domain.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

// UploadCoverImage enforces size/type, crops to the banner ratio, and uploads.
func (s *MediaService) UploadCoverImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	data, _, err := readAndValidateImage(file, header, domain.MaxImageSizeBytes)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, domain.CoverWidth, domain.CoverHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", domain.CoverFolder, uuid.NewString(), domain.ImageExt)
	if err := s.putObject(ctx, key, jpegBytes, domain.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

// UploadThumbnail validates the image and uploads it scaled down to a
// bounded width, preserving aspect ratio.
func (s *MediaService) UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	data, _, err := readAndValidateImage(file, header, domain.MaxImageSizeBytes)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() > domain.ThumbnailMaxWidth {
		img = imaging.Resize(img, domain.ThumbnailMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", domain.ThumbnailFolder, uuid.NewString(), domain.ImageExt)
	if err := s.putObject(ctx, key, buf.Bytes(), domain.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: s.objectURL(key), Key: key}, nil
}

// UploadVideo stages the upload to a temp file, probes it for duration and
// container format, then streams it to storage with the multipart uploader.
// The temp file is removed on every path.
func (s *MediaService) UploadVideo(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	if header.Size > domain.MaxVideoSizeBytes {
		return nil, domain.ErrFileTooLarge
	}

	contentType := mediaContentType(header)
	if !domain.IsAllowedVideoType(contentType) {
		return nil, domain.ErrInvalidVideoType
	}

	tmp, err := os.CreateTemp(s.tempDir, "upload-*.video")
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	written, err := io.Copy(tmp, io.LimitReader(file, domain.MaxVideoSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	if written > domain.MaxVideoSizeBytes {
		return nil, domain.ErrFileTooLarge
	}

	duration, format, err := probeVideo(tmp.Name())
	if err != nil {
		return nil, domain.ErrInvalidVideoType
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind staged upload: %w", err)
	}

	key := fmt.Sprintf("%s/%s", domain.VideoFolder, uuid.NewString())
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        tmp,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[Media] UploadVideo FAILED: key=%s err=%v", key, err)
		return nil, domain.ErrUploadFailed
	}

	return &domain.UploadResult{
		URL:      s.objectURL(key),
		Key:      key,
		Format:   format,
		Duration: duration,
	}, nil
}

// MediaRange is one ranged read of a stored object.
type MediaRange struct {
	Body          io.ReadCloser
	ContentType   string
	ContentRange  string
	ContentLength int64
	Partial       bool
}

// StreamRange fetches an object, passing the client's Range header through
// to storage so seeking in the player never buffers the whole file.
func (s *MediaService) StreamRange(ctx context.Context, key, rangeHeader string) (*MediaRange, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if rangeHeader != "" {
		input.Range = aws.String(rangeHeader)
	}

	out, err := s.s3Client.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object: %w", err)
	}

	mr := &MediaRange{
		Body:          out.Body,
		ContentType:   aws.ToString(out.ContentType),
		ContentRange:  aws.ToString(out.ContentRange),
		ContentLength: aws.ToInt64(out.ContentLength),
		Partial:       out.ContentRange != nil,
	}
	return mr, nil
}

// DeleteObject removes an object by key. An empty key is a no-op so
// callers can pass optional keys unchecked.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !domain.IsAllowedImageType(contentType) {
		return nil, "", domain.ErrInvalidImageType
	}

	return data, contentType, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// probeVideo runs ffprobe against the staged file and extracts duration
// (seconds) and the primary container format name.
func probeVideo(path string) (float64, string, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, "", fmt.Errorf("ffprobe: %w", err)
	}

	var probe struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return 0, "", fmt.Errorf("parse ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}

	// format_name can be a comma list ("mov,mp4,m4a,3gp,3g2,mj2")
	format := probe.Format.FormatName
	if idx := strings.Index(format, ","); idx != -1 {
		format = format[:idx]
	}

	return duration, format, nil
}

func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[Media] putObject FAILED: key=%s err=%v", key, err)
		return domain.ErrUploadFailed
	}
	return nil
}

func (s *MediaService) objectURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

// mediaContentType resolves the declared content type, stripping parameters.
func mediaContentType(header *multipart.FileHeader) string {
	contentType := header.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
