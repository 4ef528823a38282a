package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
)

// 5MB of image plus form overhead.
const maxUploadBytes = 6 * 1024 * 1024

// ContentService defines the admin content operations behind the update
// endpoints.
type ContentService interface {
	ListUpdates(ctx context.Context) ([]model.Update, error)
	SaveUpdate(ctx context.Context, in model.Update) (model.Update, bool, error)
	DeleteUpdate(ctx context.Context, slug string) error
	UploadImage(ctx context.Context, slug, filename, contentType string, data []byte) (string, error)
	DeleteImage(ctx context.Context, slug, filename string) error
}

// Update handles the admin content endpoints.
type Update struct {
	service ContentService
	logger  *logger.Logger
}

// NewUpdate creates a new Update handler.
func NewUpdate(service ContentService, logger *logger.Logger) *Update {
	return &Update{service: service, logger: logger}
}

// List handles GET /admin/api/updates.
func (h *Update) List(w http.ResponseWriter, r *http.Request) {
	updates, err := h.service.ListUpdates(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"updates": updates})
}

// Save handles POST /admin/api/save-update. An absent slug creates a new
// update; the response carries the slug the server assigned.
func (h *Update) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug    string `json:"slug"`
		Title   string `json:"title"`
		Excerpt string `json:"excerpt"`
		Content string `json:"content"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update, isNew, err := h.service.SaveUpdate(r.Context(), model.Update{
		Slug:    req.Slug,
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Content: req.Content,
		Status:  model.UpdateStatus(req.Status),
	})
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"slug":    update.Slug,
		"isNew":   isNew,
	})
}

// Delete handles DELETE /admin/api/delete-update.
func (h *Update) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}

	if err := h.service.DeleteUpdate(r.Context(), slug); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UploadImage handles POST /admin/api/upload-image. The body is
// multipart/form-data with a slug field and an image file.
func (h *Update) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	slug := strings.TrimSpace(r.FormValue("slug"))

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image file")
		return
	}

	path, err := h.service.UploadImage(r.Context(), slug, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "path": path})
}

// DeleteImage handles DELETE /admin/api/delete-image.
func (h *Update) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug     string `json:"slug"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.DeleteImage(r.Context(), strings.TrimSpace(req.Slug), strings.TrimSpace(req.Filename)); err != nil {
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
