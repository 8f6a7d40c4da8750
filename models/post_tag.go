package models

import (
	"time"

	"github.com/google/uuid"
)

// PostTag links a post to a tag. A given (PostID, TagID) pair appears at
// most once; tag updates replace all rows for a post rather than diffing.
type PostTag struct {
	PostID    uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;primaryKey;not null;index:idx_post_tags_post_id"`
	TagID     uuid.UUID `json:"tagId" db:"tag_id" gorm:"type:uuid;primaryKey;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
