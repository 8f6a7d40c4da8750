package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a fine-grained topic label attached to posts through PostTag rows.
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
	Color     string    `json:"color" db:"color" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (Tag) TableName() string {
	return "tags"
}
