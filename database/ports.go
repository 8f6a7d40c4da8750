package database

import (
	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/models"
)

// Storage ports consumed by the services. The GORM repos below implement
// them against Postgres; tests substitute in-memory fakes. Batch-by-id-set
// fetches are part of the contract so response building stays at one query
// per entity type, never one per row.

// PostQuery parameterizes the filtered post listing. Tag names use AND
// semantics: a post must carry every listed tag.
type PostQuery struct {
	Page      int
	Size      int
	SortField string
	SortDesc  bool
	Search    string
	Category  string
	Series    string
	Status    string // "PUBLISHED", "DRAFT" or empty for both
	Tags      []string
}

type PostStore interface {
	FindAll() ([]*models.Post, error)
	FindByID(id uuid.UUID) (*models.Post, error)
	FindBySlug(slug string) (*models.Post, error)
	ExistsBySlug(slug string) (bool, error)
	FindWithFilters(q PostQuery) ([]*models.Post, int64, error)
	FindRelated(categoryID, excludeID uuid.UUID, limit int) ([]*models.Post, error)
	Count() (int64, error)
	CountByPublished(published bool) (int64, error)
	CountByCategoryID(categoryID uuid.UUID) (int64, error)
	CountBySeriesID(seriesID uuid.UUID) (int64, error)
	CountPublishedByCategory() (map[uuid.UUID]int64, error)
	CountPublishedBySeries() (map[uuid.UUID]int64, error)
	Add(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uuid.UUID) error
}

type CategoryStore interface {
	FindAll() ([]*models.Category, error)
	FindByID(id uuid.UUID) (*models.Category, error)
	FindByName(name string) (*models.Category, error)
	FindAllByIDs(ids []uuid.UUID) ([]*models.Category, error)
	ExistsByName(name string) (bool, error)
	Add(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
}

type TagStore interface {
	FindAll() ([]*models.Tag, error)
	FindByID(id uuid.UUID) (*models.Tag, error)
	FindByName(name string) (*models.Tag, error)
	FindAllByIDs(ids []uuid.UUID) ([]*models.Tag, error)
	Add(tag *models.Tag) error
	Update(tag *models.Tag) error
	Delete(id uuid.UUID) error
}

type SeriesStore interface {
	FindAll() ([]*models.Series, error)
	FindByID(id uuid.UUID) (*models.Series, error)
	FindAllByIDs(ids []uuid.UUID) ([]*models.Series, error)
	ExistsByTitle(title string) (bool, error)
	Add(series *models.Series) error
	Update(series *models.Series) error
	Delete(id uuid.UUID) error
}

type PostTagStore interface {
	FindByPostID(postID uuid.UUID) ([]*models.PostTag, error)
	FindByPostIDs(postIDs []uuid.UUID) ([]*models.PostTag, error)
	CountByTagID(tagID uuid.UUID) (int64, error)
	ReplaceForPost(postID uuid.UUID, tagIDs []uuid.UUID) error
	DeleteByPostID(postID uuid.UUID) error
}
