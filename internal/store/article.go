package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// Pagination bounds for article listings. An unspecified limit falls back
// to DefaultListLimit rather than returning an unbounded result set.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100

	// Defaults for the front-page listings when no limit is given.
	DefaultFeaturedLimit = 5
	DefaultLatestLimit   = 10
)

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// ArticleFilter carries the composed predicate for article list and count
// queries. The zero value selects published articles with default paging.
type ArticleFilter struct {
	Limit      int
	Offset     int
	CategoryID *uuid.UUID
	Status     models.ArticleStatus
}

// where builds the WHERE clause for the filter, appending bind values to
// args. An empty Status defaults to published: non-public states must be
// requested explicitly.
func (f ArticleFilter) where(args *[]any) string {
	status := f.Status
	if status == "" {
		status = models.StatusPublished
	}

	*args = append(*args, status)
	conds := []string{fmt.Sprintf("a.status = $%d", len(*args))}

	if f.CategoryID != nil {
		*args = append(*args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("a.category_id = $%d", len(*args)))
	}

	return " WHERE " + strings.Join(conds, " AND ")
}

// normalizedLimit clamps the filter's limit into [1, MaxListLimit],
// substituting DefaultListLimit when the caller supplied none.
func (f ArticleFilter) normalizedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	}
	return f.Limit
}

const articleColumns = `a.id, a.title, a.slug, a.excerpt, a.content, a.image_url,
	a.category_id, a.author_id, a.status, a.featured,
	a.published_at, a.created_at, a.updated_at`

// scanArticle scans an article row (without relations).
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.ImageURL,
		&a.CategoryID, &a.AuthorID, &a.Status, &a.Featured,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// relationColumns extends articleColumns with the joined category and
// author fields. Category columns are nullable because the join is LEFT.
const relationColumns = articleColumns + `,
	c.name, c.slug, c.created_at, c.updated_at,
	u.username`

const relationJoins = `
	FROM articles a
	LEFT JOIN categories c ON c.id = a.category_id
	JOIN users u ON u.id = a.author_id`

// scanArticleWithRelations scans a joined row into an ArticleWithRelations.
func scanArticleWithRelations(scanner interface{ Scan(...any) error }) (*models.ArticleWithRelations, error) {
	var ar models.ArticleWithRelations
	var catName, catSlug *string
	var catCreated, catUpdated *time.Time
	var authorName string

	err := scanner.Scan(
		&ar.ID, &ar.Title, &ar.Slug, &ar.Excerpt, &ar.Content, &ar.ImageURL,
		&ar.CategoryID, &ar.AuthorID, &ar.Status, &ar.Featured,
		&ar.PublishedAt, &ar.CreatedAt, &ar.UpdatedAt,
		&catName, &catSlug, &catCreated, &catUpdated,
		&authorName,
	)
	if err != nil {
		return nil, err
	}

	if ar.CategoryID != nil && catName != nil {
		ar.Category = &models.Category{
			ID:        *ar.CategoryID,
			Name:      *catName,
			Slug:      *catSlug,
			CreatedAt: *catCreated,
			UpdatedAt: *catUpdated,
		}
	}
	ar.Author = models.Author{ID: ar.AuthorID, Username: authorName}

	return &ar, nil
}

// collectRelations drains a result set of joined rows.
func collectRelations(rows *sql.Rows) ([]models.ArticleWithRelations, error) {
	defer rows.Close()

	var items []models.ArticleWithRelations
	for rows.Next() {
		ar, err := scanArticleWithRelations(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *ar)
	}
	return items, rows.Err()
}

// List returns articles matching the filter, ordered by publication date
// descending. Unpublished statuses are returned only when the filter asks
// for them explicitly.
func (s *ArticleStore) List(f ArticleFilter) ([]models.Article, error) {
	var args []any
	query := `SELECT ` + articleColumns + ` FROM articles a` + f.where(&args)

	args = append(args, f.normalizedLimit())
	query += fmt.Sprintf(" ORDER BY a.published_at DESC NULLS LAST LIMIT $%d", len(args))

	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Count returns the number of articles matching the filter predicate.
// Limit and offset are ignored; the same status defaulting applies as in
// List so pagination math stays consistent.
func (s *ArticleStore) Count(f ArticleFilter) (int, error) {
	var args []any
	query := `SELECT COUNT(*) FROM articles a` + f.where(&args)

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// FindBySlug retrieves an article by slug with its category and author
// joined. Returns nil if not found. Status is not filtered here; the
// caller decides who may see unpublished articles.
func (s *ArticleStore) FindBySlug(slug string) (*models.ArticleWithRelations, error) {
	row := s.db.QueryRow(`SELECT `+relationColumns+relationJoins+` WHERE a.slug = $1`, slug)
	ar, err := scanArticleWithRelations(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return ar, nil
}

// FindByID retrieves an article by ID with its category and author joined.
// Returns nil if not found.
func (s *ArticleStore) FindByID(id uuid.UUID) (*models.ArticleWithRelations, error) {
	row := s.db.QueryRow(`SELECT `+relationColumns+relationJoins+` WHERE a.id = $1`, id)
	ar, err := scanArticleWithRelations(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return ar, nil
}

// Featured returns published articles flagged for prominent placement,
// most recently published first.
func (s *ArticleStore) Featured(limit int) ([]models.ArticleWithRelations, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	rows, err := s.db.Query(`
		SELECT `+relationColumns+relationJoins+`
		WHERE a.featured AND a.status = 'published'
		ORDER BY a.published_at DESC NULLS LAST
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured articles: %w", err)
	}
	return collectRelations(rows)
}

// Latest returns the most recently published articles, optionally
// restricted to one category.
func (s *ArticleStore) Latest(limit int, categoryID *uuid.UUID) ([]models.ArticleWithRelations, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}

	query := `SELECT ` + relationColumns + relationJoins + ` WHERE a.status = 'published'`
	args := []any{}
	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND a.category_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY a.published_at DESC NULLS LAST LIMIT $%d", len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("latest articles: %w", err)
	}
	return collectRelations(rows)
}

// Search performs a case-insensitive substring match over title and
// content, restricted to published articles.
func (s *ArticleStore) Search(query string, limit int) ([]models.ArticleWithRelations, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + query + "%"

	rows, err := s.db.Query(`
		SELECT `+relationColumns+relationJoins+`
		WHERE a.status = 'published'
		  AND (a.title ILIKE $1 OR a.content ILIKE $1)
		ORDER BY a.published_at DESC NULLS LAST
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return collectRelations(rows)
}

// Create inserts a new article and returns it with the generated ID.
// Publishing without an explicit publication date stamps it with now;
// scheduled articles keep whatever future date the caller set.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	if a.Status == models.StatusPublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		INSERT INTO articles (title, slug, excerpt, content, image_url,
		                      category_id, author_id, status, featured, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+strings.ReplaceAll(articleColumns, "a.", ""),
		a.Title, a.Slug, a.Excerpt, a.Content, a.ImageURL,
		a.CategoryID, a.AuthorID, a.Status, a.Featured, a.PublishedAt,
	)
	result, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return result, nil
}

// Update modifies an existing article and stamps updated_at. Last writer
// wins; there is no version check.
func (s *ArticleStore) Update(a *models.Article) error {
	if a.Status == models.StatusPublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE articles SET
			title = $1, slug = $2, excerpt = $3, content = $4, image_url = $5,
			category_id = $6, status = $7, featured = $8, published_at = $9,
			updated_at = NOW()
		WHERE id = $10
	`, a.Title, a.Slug, a.Excerpt, a.Content, a.ImageURL,
		a.CategoryID, a.Status, a.Featured, a.PublishedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes an article by ID. Idempotent.
func (s *ArticleStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}
