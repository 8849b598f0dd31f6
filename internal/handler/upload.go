package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"postpilot/internal/httputil"
	"postpilot/internal/model"
	"postpilot/internal/service"
	"postpilot/internal/transport/http/middleware"
)

// UploadHandler accepts multipart image uploads and stores them in object
// storage. mediaService may be nil when storage is not configured; uploads
// then answer 503.
type UploadHandler struct {
	mediaService *service.MediaService
	log          logrus.FieldLogger
}

func NewUploadHandler(mediaService *service.MediaService, log logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{
		mediaService: mediaService,
		log:          log,
	}
}

// Images handles POST /api/upload/images. Multipart field "images", at most
// 20 files of 10MB each, image mime types only.
func (h *UploadHandler) Images(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	if h.mediaService == nil {
		httputil.WriteServiceUnavailable(w, "File uploads are not available")
		return
	}

	maxFormSize := int64(model.MaxUploadFileCount)*model.MaxUploadFileSize + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		httputil.WriteBadRequest(w, "At least one image is required")
		return
	}
	if len(files) > model.MaxUploadFileCount {
		httputil.WriteBadRequest(w, "Too many files (max 20)")
		return
	}

	uploaded := make([]model.UploadedImage, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid file upload")
			return
		}

		img, err := h.mediaService.UploadImage(r.Context(), file, header)
		file.Close()
		if err != nil {
			switch {
			case errors.Is(err, model.ErrFileTooLarge):
				httputil.WriteBadRequest(w, "File exceeds 10MB limit")
			case errors.Is(err, model.ErrInvalidImageType):
				httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif, webp")
			default:
				h.log.WithField("user_id", userID).Errorf("image upload failed: %v", err)
				httputil.WriteInternalError(w, "Failed to upload image")
			}
			return
		}

		uploaded = append(uploaded, *img)
	}

	httputil.WriteSuccess(w, http.StatusCreated, uploaded, "Images uploaded")
}
