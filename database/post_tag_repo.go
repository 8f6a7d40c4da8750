package database

import (
	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/models"
	"gorm.io/gorm"
)

type PostTagRepo struct {
	db *gorm.DB
}

func NewPostTagRepo(db *gorm.DB) *PostTagRepo {
	return &PostTagRepo{db}
}

func (r *PostTagRepo) FindByPostID(postID uuid.UUID) ([]*models.PostTag, error) {
	var postTags []*models.PostTag
	if err := r.db.Find(&postTags, "post_id = ?", postID).Error; err != nil {
		return nil, translate(err, "post_tag", postID.String())
	}
	return postTags, nil
}

func (r *PostTagRepo) FindByPostIDs(postIDs []uuid.UUID) ([]*models.PostTag, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var postTags []*models.PostTag
	if err := r.db.Find(&postTags, "post_id IN ?", postIDs).Error; err != nil {
		return nil, translate(err, "post_tag", "batch")
	}
	return postTags, nil
}

func (r *PostTagRepo) CountByTagID(tagID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PostTag{}).Where("tag_id = ?", tagID).Count(&count).Error; err != nil {
		return 0, translate(err, "post_tag", tagID.String())
	}
	return count, nil
}

// ReplaceForPost swaps the post's tag associations wholesale: delete all
// existing rows, insert the new set. Both steps run in one transaction.
func (r *PostTagRepo) ReplaceForPost(postID uuid.UUID, tagIDs []uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PostTag{}, "post_id = ?", postID).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		postTags := make([]models.PostTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			postTags = append(postTags, models.PostTag{PostID: postID, TagID: tagID})
		}
		return tx.Create(&postTags).Error
	})
	return translate(err, "post_tag", postID.String())
}

func (r *PostTagRepo) DeleteByPostID(postID uuid.UUID) error {
	return translate(r.db.Delete(&models.PostTag{}, "post_id = ?", postID).Error, "post_tag", postID.String())
}
