package model

import "errors"

// Upload limits for POST /api/upload/images.
const (
	MaxUploadFileSize  = 10 * 1024 * 1024 // 10MB per file
	MaxUploadFileCount = 20
	UploadFolder       = "uploads"
)

// UploadedImage describes one stored image.
type UploadedImage struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
}

var (
	ErrFileTooLarge      = errors.New("file exceeds size limit")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidImageType  = errors.New("unsupported image type")
	ErrStorageUnavailable = errors.New("object storage is not configured")
)
