package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"postpilot/internal/config"
	"postpilot/internal/model"
)

const (
	thumbnailSize    = 320
	thumbnailQuality = 80
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService stores uploaded images in S3-compatible object storage
// (Cloudflare R2) and produces a JPEG thumbnail per image.
type MediaService struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewMediaService constructs the storage client. A nil service (storage not
// configured) is a valid state: upload endpoints answer 503 in that case.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, model.ErrStorageUnavailable
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimRight(cfg.R2PublicURL, "/"),
	}, nil
}

// UploadImage enforces size/type limits, stores the original and a
// thumbnail, and returns their public URLs.
func (s *MediaService) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadedImage, error) {
	data, contentType, err := readAndValidateImage(file, header, model.MaxUploadFileSize)
	if err != nil {
		return nil, err
	}

	ext := allowedImageTypes[contentType]
	id := uuid.NewString()
	key := path.Join(model.UploadFolder, id+ext)

	if err := s.putObject(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	thumbKey := path.Join(model.UploadFolder, "thumbs", id+".jpg")
	thumb, err := makeThumbnail(data)
	if err != nil {
		return nil, err
	}
	if err := s.putObject(ctx, thumbKey, thumb, "image/jpeg"); err != nil {
		return nil, err
	}

	return &model.UploadedImage{
		URL:          fmt.Sprintf("%s/%s", s.publicURL, key),
		ThumbnailURL: fmt.Sprintf("%s/%s", s.publicURL, thumbKey),
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  contentType,
	}, nil
}

// readAndValidateImage loads the upload into memory with size and type checks.
func readAndValidateImage(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, "", model.ErrInvalidImageType
	}

	return data, contentType, nil
}

// makeThumbnail decodes the image (rejecting files that only claim an image
// mime type) and encodes a bounded JPEG preview.
func makeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, model.ErrInvalidImageType
	}

	resized := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
