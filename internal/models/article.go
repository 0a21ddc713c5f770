package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusScheduled ArticleStatus = "scheduled"
	StatusPublished ArticleStatus = "published"
)

// ValidStatus reports whether s is one of the known article statuses.
func ValidStatus(s ArticleStatus) bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished:
		return true
	}
	return false
}

// Article is the core content unit of the newsroom. Only published
// articles are visible to anonymous readers; draft and scheduled
// articles are admin-only.
type Article struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Excerpt     string        `json:"excerpt"`
	Content     string        `json:"content"`
	ImageURL    *string       `json:"image_url,omitempty"`
	CategoryID  *uuid.UUID    `json:"category_id,omitempty"`
	AuthorID    uuid.UUID     `json:"author_id"`
	Status      ArticleStatus `json:"status"`
	Featured    bool          `json:"featured"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublished returns true if the article is publicly visible.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// ArticleWithRelations joins an article with its category and author.
// It is produced only by read-side queries and never persisted.
type ArticleWithRelations struct {
	Article
	Category *Category `json:"category,omitempty"`
	Author   Author    `json:"author"`
}
