package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsdesk/internal/httperr"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/storage"
	"newsdesk/internal/store"
)

// maxUploadSize is the maximum allowed file upload size (10 MB).
const maxUploadSize = 10 << 20

// allowedMediaTypes defines MIME types accepted for upload. Articles
// only reference images, so nothing else gets in.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Media groups the media library handlers. All of them are admin-only.
type Media struct {
	mediaStore    *store.MediaStore
	storageClient *storage.Client
}

// NewMedia creates a new Media handler group. storageClient may be nil
// when object storage is not configured; uploads then return 503.
func NewMedia(mediaStore *store.MediaStore, storageClient *storage.Client) *Media {
	return &Media{
		mediaStore:    mediaStore,
		storageClient: storageClient,
	}
}

// errNoStorage is returned when object storage is not configured.
var errNoStorage = &httperr.Error{
	Status:  http.StatusServiceUnavailable,
	Message: "Media storage is not configured",
}

// Upload accepts a multipart file upload, stores the object in S3, and
// records its metadata.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storageClient == nil {
		httperr.Write(w, r, errNoStorage)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httperr.Write(w, r, httperr.Validation("File too large or malformed upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httperr.Write(w, r, httperr.Validation("Missing file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMediaTypes[contentType] {
		httperr.Write(w, r, httperr.Validation("Unsupported file type"))
		return
	}

	// Key layout: uploads/YYYY/MM/<uuid><ext>. The random name avoids
	// collisions and hides the original filename from URLs.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	key := fmt.Sprintf("uploads/%s/%s", time.Now().Format("2006/01"), filename)

	if err := h.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		httperr.Write(w, r, err)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	media, err := h.mediaStore.Create(&models.Media{
		Filename:     filename,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    header.Size,
		S3Key:        key,
		UploaderID:   sess.UserID,
	})
	if err != nil {
		// The object is already in S3; try not to leave it orphaned.
		if derr := h.storageClient.Delete(r.Context(), key); derr != nil {
			slog.Error("orphaned upload cleanup failed", "key", key, "error", derr)
		}
		httperr.Write(w, r, err)
		return
	}
	media.URL = h.storageClient.FileURL(key)

	slog.Info("media uploaded", "id", media.ID, "key", key, "size", header.Size)
	respond(w, http.StatusCreated, media)
}

// List returns uploaded media items, newest first.
func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.mediaStore.List(intParam(r, "limit"), intParam(r, "offset"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if items == nil {
		items = []models.Media{}
	}

	if h.storageClient != nil {
		for i := range items {
			items[i].URL = h.storageClient.FileURL(items[i].S3Key)
		}
	}

	respond(w, http.StatusOK, items)
}

// Delete removes a media item from both object storage and the database.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if h.storageClient == nil {
		httperr.Write(w, r, errNoStorage)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, httperr.Validation("Invalid media ID"))
		return
	}

	media, err := h.mediaStore.FindByID(id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if media == nil {
		httperr.Write(w, r, httperr.NotFound("Media not found"))
		return
	}

	if err := h.storageClient.Delete(r.Context(), media.S3Key); err != nil {
		httperr.Write(w, r, err)
		return
	}
	if err := h.mediaStore.Delete(id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	slog.Info("media deleted", "id", id, "key", media.S3Key)
	respond(w, http.StatusNoContent, nil)
}
