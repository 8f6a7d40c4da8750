package database

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/models"
	"gorm.io/gorm"
)

// Sortable listing columns, keyed by the API-facing camelCase names.
var postSortColumns = map[string]string{
	"createdAt":   "posts.created_at",
	"updatedAt":   "posts.updated_at",
	"publishedAt": "posts.published_at",
	"title":       "posts.title",
	"visitCount":  "posts.visit_count",
}

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// FindAll returns every post, used by the batch sync loop.
func (r *PostRepo) FindAll() ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.Find(&posts).Error; err != nil {
		return nil, translate(err, "post", "all")
	}
	return posts, nil
}

func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err, "post", id.String())
	}
	return &post, nil
}

func (r *PostRepo) FindBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "slug = ?", slug).Error; err != nil {
		return nil, translate(err, "post", slug)
	}
	return &post, nil
}

func (r *PostRepo) ExistsBySlug(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, translate(err, "post", slug)
	}
	return count > 0, nil
}

// FindWithFilters runs the filtered, paginated listing query. Search matches
// title and slug case-insensitively; the tag filter requires a post to carry
// all listed tags.
func (r *PostRepo) FindWithFilters(q PostQuery) ([]*models.Post, int64, error) {
	query := r.db.Model(&models.Post{}).
		Joins("LEFT JOIN categories ON categories.id = posts.category_id").
		Joins("LEFT JOIN series ON series.id = posts.series_id")

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.slug) LIKE ?", pattern, pattern)
	}
	if q.Category != "" {
		query = query.Where("LOWER(categories.name) = LOWER(?)", q.Category)
	}
	if q.Series != "" {
		query = query.Where("LOWER(series.title) = LOWER(?)", q.Series)
	}
	switch q.Status {
	case "PUBLISHED":
		query = query.Where("posts.is_published = ?", true)
	case "DRAFT":
		query = query.Where("posts.is_published = ?", false)
	}
	if len(q.Tags) > 0 {
		query = query.Where(
			"posts.id IN (SELECT pt.post_id FROM post_tags pt JOIN tags t ON t.id = pt.tag_id "+
				"WHERE t.name IN ? GROUP BY pt.post_id HAVING COUNT(DISTINCT t.name) = ?)",
			q.Tags, len(q.Tags))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "post", "listing")
	}

	column, ok := postSortColumns[q.SortField]
	if !ok {
		column = postSortColumns["createdAt"]
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	var posts []*models.Post
	err := query.
		Order(column + " " + direction).
		Offset(q.Page * q.Size).
		Limit(q.Size).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translate(err, "post", "listing")
	}
	return posts, total, nil
}

// FindRelated returns the newest published posts in a category, excluding
// the post they relate to.
func (r *PostRepo) FindRelated(categoryID, excludeID uuid.UUID, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.
		Where("category_id = ? AND is_published = ? AND id <> ?", categoryID, true, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "post", "related")
	}
	return posts, nil
}

func (r *PostRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, translate(err, "post", "count")
	}
	return count, nil
}

func (r *PostRepo) CountByPublished(published bool) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("is_published = ?", published).Count(&count).Error
	if err != nil {
		return 0, translate(err, "post", "count")
	}
	return count, nil
}

func (r *PostRepo) CountByCategoryID(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("category_id = ?", categoryID).Count(&count).Error
	if err != nil {
		return 0, translate(err, "post", "count")
	}
	return count, nil
}

func (r *PostRepo) CountBySeriesID(seriesID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("series_id = ?", seriesID).Count(&count).Error
	if err != nil {
		return 0, translate(err, "post", "count")
	}
	return count, nil
}

type groupCount struct {
	ID    uuid.UUID
	Count int64
}

func (r *PostRepo) CountPublishedByCategory() (map[uuid.UUID]int64, error) {
	var rows []groupCount
	err := r.db.Model(&models.Post{}).
		Select("category_id AS id, COUNT(*) AS count").
		Where("is_published = ?", true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "post", "count by category")
	}
	return groupCountMap(rows), nil
}

func (r *PostRepo) CountPublishedBySeries() (map[uuid.UUID]int64, error) {
	var rows []groupCount
	err := r.db.Model(&models.Post{}).
		Select("series_id AS id, COUNT(*) AS count").
		Where("is_published = ? AND series_id IS NOT NULL", true).
		Group("series_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "post", "count by series")
	}
	return groupCountMap(rows), nil
}

func groupCountMap(rows []groupCount) map[uuid.UUID]int64 {
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts
}

func (r *PostRepo) Add(post *models.Post) error {
	return translate(r.db.Create(post).Error, "post", post.Slug)
}

func (r *PostRepo) Update(post *models.Post) error {
	return translate(r.db.Save(post).Error, "post", post.Slug)
}

func (r *PostRepo) Delete(id uuid.UUID) error {
	return translate(r.db.Delete(&models.Post{}, "id = ?", id).Error, "post", id.String())
}
