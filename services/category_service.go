package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/cache"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	PostCount int64     `json:"postCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryService struct {
	categories database.CategoryStore
	posts      database.PostStore
	colors     *ColorPicker
	cache      *cache.Store
	logger     zerolog.Logger
}

func NewCategoryService(categories database.CategoryStore, posts database.PostStore, colors *ColorPicker, cacheStore *cache.Store) *CategoryService {
	return &CategoryService{
		categories: categories,
		posts:      posts,
		colors:     colors,
		cache:      cacheStore,
		logger:     log.With().Str("service", "category").Logger(),
	}
}

// List returns all categories with their published-post counts, computed by
// one grouped query. Cached in the categories region.
func (s *CategoryService) List() ([]CategoryResponse, error) {
	return cache.GetOrCompute(s.cache, cache.Categories, "all", func() ([]CategoryResponse, error) {
		categories, err := s.categories.FindAll()
		if err != nil {
			return nil, err
		}
		counts, err := s.posts.CountPublishedByCategory()
		if err != nil {
			return nil, err
		}

		responses := make([]CategoryResponse, 0, len(categories))
		for _, category := range categories {
			responses = append(responses, CategoryResponse{
				ID:        category.ID,
				Name:      category.Name,
				Color:     category.Color,
				PostCount: counts[category.ID],
				CreatedAt: category.CreatedAt,
			})
		}
		return responses, nil
	})
}

func (s *CategoryService) Create(name, color string) (*models.Category, error) {
	taken, err := s.categories.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewConflictError(fmt.Sprintf("category %q already exists", name))
	}

	if color == "" {
		color = s.colors.Pick()
	}
	category := &models.Category{Name: name, Color: color}
	if err := s.categories.Add(category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.Categories)

	s.logger.Info().Str("name", name).Msg("category created")
	return category, nil
}

func (s *CategoryService) Update(id uuid.UUID, name, color string) (*models.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		category.Name = name
	}
	if color != "" {
		category.Color = color
	}
	if err := s.categories.Update(category); err != nil {
		return nil, err
	}
	// Post responses embed the category name, so post regions go stale too.
	s.cache.Invalidate(append([]cache.Region{cache.Categories}, cache.PostRegions...)...)

	return category, nil
}

func (s *CategoryService) Delete(id uuid.UUID) error {
	category, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	count, err := s.posts.CountByCategoryID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.NewBadRequestError(fmt.Sprintf("category %q still has %d posts", category.Name, count))
	}

	if err := s.categories.Delete(id); err != nil {
		return err
	}
	s.cache.Invalidate(cache.Categories)

	s.logger.Info().Str("name", category.Name).Msg("category deleted")
	return nil
}
