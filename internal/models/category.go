package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named, slugged grouping for articles. Articles reference
// a category via a nullable foreign key; an article with no category is
// treated as "Uncategorized".
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ArticleCount is populated by CategoryStore.List for dashboard use.
	ArticleCount int `json:"article_count"`
}
