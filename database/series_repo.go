package database

import (
	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/models"
	"gorm.io/gorm"
)

type SeriesRepo struct {
	db *gorm.DB
}

func NewSeriesRepo(db *gorm.DB) *SeriesRepo {
	return &SeriesRepo{db}
}

func (r *SeriesRepo) FindAll() ([]*models.Series, error) {
	var series []*models.Series
	if err := r.db.Order("title ASC").Find(&series).Error; err != nil {
		return nil, translate(err, "series", "all")
	}
	return series, nil
}

func (r *SeriesRepo) FindByID(id uuid.UUID) (*models.Series, error) {
	var series models.Series
	if err := r.db.First(&series, "id = ?", id).Error; err != nil {
		return nil, translate(err, "series", id.String())
	}
	return &series, nil
}

func (r *SeriesRepo) FindAllByIDs(ids []uuid.UUID) ([]*models.Series, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var series []*models.Series
	if err := r.db.Find(&series, "id IN ?", ids).Error; err != nil {
		return nil, translate(err, "series", "batch")
	}
	return series, nil
}

func (r *SeriesRepo) ExistsByTitle(title string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Series{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, translate(err, "series", title)
	}
	return count > 0, nil
}

func (r *SeriesRepo) Add(series *models.Series) error {
	return translate(r.db.Create(series).Error, "series", series.Title)
}

func (r *SeriesRepo) Update(series *models.Series) error {
	return translate(r.db.Save(series).Error, "series", series.Title)
}

func (r *SeriesRepo) Delete(id uuid.UUID) error {
	return translate(r.db.Delete(&models.Series{}, "id = ?", id).Error, "series", id.String())
}
