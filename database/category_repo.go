package database

import (
	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

func (r *CategoryRepo) FindAll() ([]*models.Category, error) {
	var categories []*models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate(err, "category", "all")
	}
	return categories, nil
}

func (r *CategoryRepo) FindByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "category", id.String())
	}
	return &category, nil
}

// FindByName does an exact, case-sensitive lookup.
func (r *CategoryRepo) FindByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "name = ?", name).Error; err != nil {
		return nil, translate(err, "category", name)
	}
	return &category, nil
}

func (r *CategoryRepo) FindAllByIDs(ids []uuid.UUID) ([]*models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []*models.Category
	if err := r.db.Find(&categories, "id IN ?", ids).Error; err != nil {
		return nil, translate(err, "category", "batch")
	}
	return categories, nil
}

func (r *CategoryRepo) ExistsByName(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, translate(err, "category", name)
	}
	return count > 0, nil
}

func (r *CategoryRepo) Add(category *models.Category) error {
	return translate(r.db.Create(category).Error, "category", category.Name)
}

func (r *CategoryRepo) Update(category *models.Category) error {
	return translate(r.db.Save(category).Error, "category", category.Name)
}

func (r *CategoryRepo) Delete(id uuid.UUID) error {
	return translate(r.db.Delete(&models.Category{}, "id = ?", id).Error, "category", id.String())
}
