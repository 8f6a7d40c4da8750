package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups posts by broad topic. Name lookups are exact,
// case-sensitive matches. PostCount is derived at read time and never
// authoritative; the column only exists as a convenience default.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
	Color     string    `json:"color" db:"color" gorm:"type:text"`
	PostCount int       `json:"postCount" db:"post_count" gorm:"type:integer;not null;default:0"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string {
	return "categories"
}
