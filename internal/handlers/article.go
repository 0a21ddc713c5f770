package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"newsdesk/internal/cache"
	"newsdesk/internal/httperr"
	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/slug"
	"newsdesk/internal/store"
)

// Articles groups the article read and admin CRUD handlers.
type Articles struct {
	articleStore  *store.ArticleStore
	categoryStore *store.CategoryStore
	listCache     *cache.ListCache
}

// NewArticles creates a new Articles handler group.
func NewArticles(articleStore *store.ArticleStore, categoryStore *store.CategoryStore, listCache *cache.ListCache) *Articles {
	return &Articles{
		articleStore:  articleStore,
		categoryStore: categoryStore,
		listCache:     listCache,
	}
}

// intParam parses a non-negative integer query parameter, returning 0
// when absent or malformed.
func intParam(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// List returns a paginated article listing. Anonymous callers only ever
// see published articles; requesting another status requires an admin
// session.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ArticleFilter{
		Limit:  intParam(r, "limit"),
		Offset: intParam(r, "offset"),
	}

	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.Write(w, r, httperr.Validation("Invalid category ID"))
			return
		}
		filter.CategoryID = &id
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.ArticleStatus(raw)
		if !models.ValidStatus(status) {
			httperr.Write(w, r, httperr.Validation("Invalid article status"))
			return
		}
		if status != models.StatusPublished && !middleware.IsAdmin(r.Context()) {
			httperr.Write(w, r, httperr.Forbidden("Administrator access required"))
			return
		}
		filter.Status = status
	}

	articles, err := h.articleStore.List(filter)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	total, err := h.articleStore.Count(filter)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	if articles == nil {
		articles = []models.Article{}
	}

	// Echo the limit actually applied, not the one requested.
	limit := filter.Limit
	switch {
	case limit <= 0:
		limit = store.DefaultListLimit
	case limit > store.MaxListLimit:
		limit = store.MaxListLimit
	}

	respond(w, http.StatusOK, map[string]any{
		"articles":   articles,
		"pagination": Pagination{Total: total, Limit: limit, Offset: filter.Offset},
	})
}

// Featured returns published articles flagged for prominent placement.
// Responses are cached briefly since this backs every front page load.
func (h *Articles) Featured(w http.ResponseWriter, r *http.Request) {
	// Normalize before building the key so an omitted limit and an
	// explicit default share one cache entry.
	limit := intParam(r, "limit")
	if limit <= 0 {
		limit = store.DefaultFeaturedLimit
	}
	key := cache.FeaturedKey(limit)

	if body, ok := h.listCache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	articles, err := h.articleStore.Featured(limit)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if articles == nil {
		articles = []models.ArticleWithRelations{}
	}

	h.writeCached(w, r, key, articles)
}

// Latest returns the most recently published articles, optionally
// restricted to one category.
func (h *Articles) Latest(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit")
	if limit <= 0 {
		limit = store.DefaultLatestLimit
	}

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.Write(w, r, httperr.Validation("Invalid category ID"))
			return
		}
		categoryID = &id
	}

	key := cache.LatestKey(limit, categoryID)
	if body, ok := h.listCache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	articles, err := h.articleStore.Latest(limit, categoryID)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if articles == nil {
		articles = []models.ArticleWithRelations{}
	}

	h.writeCached(w, r, key, articles)
}

// writeCached marshals v, stores it under key, and writes it out. Cache
// write failures are non-fatal; the response still goes to the client.
func (h *Articles) writeCached(w http.ResponseWriter, r *http.Request, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	h.listCache.Set(r.Context(), key, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Search performs a case-insensitive search over published article
// titles and content. An empty query is a client error, not an empty
// result.
func (h *Articles) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httperr.Write(w, r, httperr.Validation("Search query is required"))
		return
	}

	articles, err := h.articleStore.Search(query, intParam(r, "limit"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if articles == nil {
		articles = []models.ArticleWithRelations{}
	}

	respond(w, http.StatusOK, articles)
}

// GetBySlug returns a single article with its category and author.
// Unpublished articles are visible only to admins.
func (h *Articles) GetBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleStore.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if article == nil {
		httperr.Write(w, r, httperr.NotFound("Article not found"))
		return
	}

	if !article.IsPublished() && !middleware.IsAdmin(r.Context()) {
		httperr.Write(w, r, httperr.Forbidden("Administrator access required"))
		return
	}

	respond(w, http.StatusOK, article)
}

type articleCreateRequest struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Slug        string     `json:"slug" validate:"omitempty,max=300"`
	Excerpt     string     `json:"excerpt" validate:"omitempty,max=1000"`
	Content     string     `json:"content" validate:"required"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	Featured    bool       `json:"featured"`
	PublishedAt *time.Time `json:"published_at"`
}

// Create adds a new article. The author is always the session user; a
// missing slug is derived from the title and a missing status defaults
// to draft.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var req articleCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, r, err)
		return
	}

	if req.CategoryID != nil {
		if err := h.checkCategory(w, r, *req.CategoryID); err != nil {
			return
		}
	}

	if req.Slug == "" {
		req.Slug = slug.Generate(req.Title)
	}
	status := models.ArticleStatus(req.Status)
	if status == "" {
		status = models.StatusDraft
	}

	sess := middleware.SessionFromCtx(r.Context())
	article, err := h.articleStore.Create(&models.Article{
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		AuthorID:    sess.UserID,
		Status:      status,
		Featured:    req.Featured,
		PublishedAt: req.PublishedAt,
	})
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	h.listCache.InvalidateAll(r.Context())
	slog.Info("article created", "id", article.ID, "slug", article.Slug, "status", article.Status)
	respond(w, http.StatusCreated, article)
}

type articleUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=300"`
	Slug        *string    `json:"slug" validate:"omitempty,min=1,max=300"`
	Excerpt     *string    `json:"excerpt" validate:"omitempty,max=1000"`
	Content     *string    `json:"content" validate:"omitempty,min=1"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	Featured    *bool      `json:"featured"`
	PublishedAt *time.Time `json:"published_at"`
}

// Update applies a partial update to an existing article. Fields absent
// from the request keep their stored values; the author never changes.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, httperr.Validation("Invalid article ID"))
		return
	}

	existing, err := h.articleStore.FindByID(id)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}
	if existing == nil {
		httperr.Write(w, r, httperr.NotFound("Article not found"))
		return
	}

	var req articleUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		httperr.Write(w, r, err)
		return
	}

	if req.CategoryID != nil {
		if err := h.checkCategory(w, r, *req.CategoryID); err != nil {
			return
		}
	}

	article := existing.Article
	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Slug != nil {
		article.Slug = *req.Slug
	}
	if req.Excerpt != nil {
		article.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.ImageURL != nil {
		article.ImageURL = req.ImageURL
	}
	if req.CategoryID != nil {
		article.CategoryID = req.CategoryID
	}
	if req.Status != nil {
		article.Status = models.ArticleStatus(*req.Status)
	}
	if req.Featured != nil {
		article.Featured = *req.Featured
	}
	if req.PublishedAt != nil {
		article.PublishedAt = req.PublishedAt
	}

	if err := h.articleStore.Update(&article); err != nil {
		httperr.Write(w, r, err)
		return
	}

	h.listCache.InvalidateAll(r.Context())
	respond(w, http.StatusOK, article)
}

// Delete removes an article.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, r, httperr.Validation("Invalid article ID"))
		return
	}

	if err := h.articleStore.Delete(id); err != nil {
		httperr.Write(w, r, err)
		return
	}

	h.listCache.InvalidateAll(r.Context())
	slog.Info("article deleted", "id", id)
	respond(w, http.StatusNoContent, nil)
}

// checkCategory rejects references to categories that do not exist,
// turning a would-be foreign key violation into a 400. Writes the error
// response itself and returns non-nil when the caller should stop.
func (h *Articles) checkCategory(w http.ResponseWriter, r *http.Request, id uuid.UUID) error {
	category, err := h.categoryStore.FindByID(id)
	if err != nil {
		httperr.Write(w, r, err)
		return err
	}
	if category == nil {
		verr := httperr.Validation("Category does not exist")
		httperr.Write(w, r, verr)
		return verr
	}
	return nil
}
