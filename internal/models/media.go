package models

import (
	"time"

	"github.com/google/uuid"
)

// Media represents an image uploaded to S3-compatible object storage,
// typically referenced by an article's image URL. Metadata is stored in
// PostgreSQL; the file itself lives in the bucket.
type Media struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	S3Key        string    `json:"s3_key"`

	// URL is derived from the storage client, not stored.
	URL        string    `json:"url"`
	UploaderID uuid.UUID `json:"uploader_id"`
	CreatedAt  time.Time `json:"created_at"`
}
