package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

// HostedUploader sends files to the image host.
type HostedUploader interface {
	Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, error)
}

// ObjectUploader stores files in the project's bucket.
type ObjectUploader interface {
	Upload(ctx context.Context, field, filename, contentType string, r io.Reader) (string, error)
}

type ImageHandler struct {
	hosted   HostedUploader
	objects  ObjectUploader
	maxBytes int64
}

// NewImageHandler wires both upload paths. objects may be nil when no bucket
// is configured.
func NewImageHandler(hosted HostedUploader, objects ObjectUploader, maxBytes int64) *ImageHandler {
	if maxBytes <= 0 {
		maxBytes = services.DefaultMaxUploadBytes
	}
	return &ImageHandler{hosted: hosted, objects: objects, maxBytes: maxBytes}
}

// Upload sends a file to Cloudinary and returns its optimized delivery URL.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.readFile(w, r, true)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.hosted.Upload(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		writeUploadError(w, "ImageHandler.Upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.UploadResponse{URL: url}))
}

// UploadObject stores a file in the storage bucket under the entity field
// it belongs to.
func (h *ImageHandler) UploadObject(w http.ResponseWriter, r *http.Request) {
	if h.objects == nil {
		writeUploadError(w, "ImageHandler.UploadObject", services.ErrUploadNotConfigured)
		return
	}
	file, header, ok := h.readFile(w, r, false)
	if !ok {
		return
	}
	defer file.Close()

	field := r.FormValue("field")
	if field == "" {
		field = "thumbnailUrl"
	}
	url, err := h.objects.Upload(r.Context(), field, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeUploadError(w, "ImageHandler.UploadObject", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.UploadResponse{URL: url}))
}

func (h *ImageHandler) readFile(w http.ResponseWriter, r *http.Request, allowPDF bool) (multipart.File, *multipart.FileHeader, bool) {
	// Room for the multipart envelope on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeUploadError(w, "ImageHandler.readFile", services.ErrFileTooLarge)
			return nil, nil, false
		}
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid form data"))
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No file provided"))
		return nil, nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if !isValidImageType(contentType) && !(allowPDF && contentType == "application/pdf") {
		file.Close()
		msg := "Invalid image type. Allowed: JPEG, PNG, GIF, WebP"
		if allowPDF {
			msg = "Invalid file type. Allowed: JPEG, PNG, GIF, WebP, PDF"
		}
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(msg))
		return nil, nil, false
	}
	return file, header, true
}

func writeUploadError(w http.ResponseWriter, tag string, err error) {
	switch {
	case errors.Is(err, services.ErrFileTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, models.NewErrorResponse("File is too large"))
	case errors.Is(err, services.ErrUploadNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Uploads are not configured"))
	case errors.Is(err, services.ErrImageRejected):
		writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Image was rejected by content moderation"))
	default:
		log.Printf("[%s] error=%v", tag, err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Failed to upload file"))
	}
}

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
