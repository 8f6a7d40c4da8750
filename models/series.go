package models

import (
	"time"

	"github.com/google/uuid"
)

// Series is an ordered collection of posts, e.g. a multi-part writeup.
type Series struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null;unique"`
	Description *string   `json:"description,omitempty" db:"description" gorm:"type:text"`
	CoverImage  *string   `json:"coverImage,omitempty" db:"cover_image" gorm:"type:text"`
	Color       string    `json:"color" db:"color" gorm:"type:text"`
	PostCount   int       `json:"postCount" db:"post_count" gorm:"type:integer;not null;default:0"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (Series) TableName() string {
	return "series"
}
