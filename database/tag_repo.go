package database

import (
	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	var tags []*models.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, translate(err, "tag", "all")
	}
	return tags, nil
}

func (r *TagRepo) FindByID(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		return nil, translate(err, "tag", id.String())
	}
	return &tag, nil
}

// FindByName does an exact, case-sensitive lookup.
func (r *TagRepo) FindByName(name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "name = ?", name).Error; err != nil {
		return nil, translate(err, "tag", name)
	}
	return &tag, nil
}

func (r *TagRepo) FindAllByIDs(ids []uuid.UUID) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []*models.Tag
	if err := r.db.Find(&tags, "id IN ?", ids).Error; err != nil {
		return nil, translate(err, "tag", "batch")
	}
	return tags, nil
}

func (r *TagRepo) Add(tag *models.Tag) error {
	return translate(r.db.Create(tag).Error, "tag", tag.Name)
}

func (r *TagRepo) Update(tag *models.Tag) error {
	return translate(r.db.Save(tag).Error, "tag", tag.Name)
}

func (r *TagRepo) Delete(id uuid.UUID) error {
	return translate(r.db.Delete(&models.Tag{}, "id = ?", id).Error, "tag", id.String())
}
