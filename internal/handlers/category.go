package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsdesk/internal/cache"
	"newsdesk/internal/httperr"
	"newsdesk/internal/models"
	"newsdesk/internal/slug"
	"newsdesk/internal/store"
)

// Categories groups the category read and admin CRUD handlers.
type Categories struct {
	categoryStore *store.CategoryStore
	listCache     *cache.ListCache
}

// NewCategories creates a new Categories handler group.
func NewCategories(categoryStore *store.CategoryStore, listCache *cache.ListCache) *Categories {
	return &Categories{
		categoryStore: categoryStore,
		listCache:     listCache,
	}
}

// List returns all categories with their article counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryStore.List()
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respond(w, http.StatusOK, categories)
}

// GetBySlug returns a single category by its slug.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryStore.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if category == nil {
		httperr.Write(w, r, httperr.NotFound("Category not found"))
		return
	}
	respond(w, http.StatusOK, category)
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

// Create adds a new category. The slug is derived from the name when
// the request omits one.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, r, err)
		return
	}

	if req.Slug == "" {
		req.Slug = slug.Generate(req.Name)
	}

	category, err := h.categoryStore.Create(&models.Category{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	slog.Info("category created", "id", category.ID, "slug", category.Slug)
	respond(w, http.StatusCreated, category)
}

type categoryUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug *string `json:"slug" validate:"omitempty,min=1,max=100"`
}

// Update applies a partial update to an existing category. Returns 404
// if it does not exist.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, httperr.Validation("Invalid category ID"))
		return
	}

	category, err := h.categoryStore.FindByID(id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if category == nil {
		httperr.Write(w, r, httperr.NotFound("Category not found"))
		return
	}

	var req categoryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, r, err)
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}

	if err := h.categoryStore.Update(category); err != nil {
		httperr.Write(w, r, err)
		return
	}

	h.listCache.InvalidateAll(r.Context())
	respond(w, http.StatusOK, category)
}

// Delete removes a category. Articles in it are detached, not deleted.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, httperr.Validation("Invalid category ID"))
		return
	}

	if err := h.categoryStore.Delete(id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	h.listCache.InvalidateAll(r.Context())
	slog.Info("category deleted", "id", id)
	respond(w, http.StatusNoContent, nil)
}
