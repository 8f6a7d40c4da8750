package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog article. The markdown body lives in Content with the
// frontmatter block always stripped; the raw document (including frontmatter)
// stays in the git mirror under <contentPath>/<slug>.md.
type Post struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Slug         string     `json:"slug" db:"slug" gorm:"type:text;not null;unique"`
	Title        string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description  *string    `json:"description,omitempty" db:"description" gorm:"type:text"`
	CoverImage   *string    `json:"coverImage,omitempty" db:"cover_image" gorm:"type:text"`
	Content      string     `json:"content" db:"content" gorm:"type:text;not null"`
	CategoryID   uuid.UUID  `json:"categoryId" db:"category_id" gorm:"type:uuid;not null;index:idx_posts_category_id"`
	SeriesID     *uuid.UUID `json:"seriesId,omitempty" db:"series_id" gorm:"type:uuid"`
	Published    bool       `json:"published" db:"is_published" gorm:"column:is_published;not null;default:false"`
	VisitCount   int64      `json:"visitCount" db:"visit_count" gorm:"type:bigint;not null;default:0"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty" db:"published_at" gorm:"type:timestamp"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty" db:"last_synced_at" gorm:"type:timestamp"`
}

func (Post) TableName() string {
	return "posts"
}
