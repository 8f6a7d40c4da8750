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

type SeriesResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	Color       string    `json:"color"`
	PostCount   int64     `json:"postCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SeriesInput struct {
	Title       string
	Description *string
	CoverImage  *string
	Color       string
}

type SeriesService struct {
	series database.SeriesStore
	posts  database.PostStore
	colors *ColorPicker
	cache  *cache.Store
	logger zerolog.Logger
}

func NewSeriesService(series database.SeriesStore, posts database.PostStore, colors *ColorPicker, cacheStore *cache.Store) *SeriesService {
	return &SeriesService{
		series: series,
		posts:  posts,
		colors: colors,
		cache:  cacheStore,
		logger: log.With().Str("service", "series").Logger(),
	}
}

func (s *SeriesService) List() ([]SeriesResponse, error) {
	return cache.GetOrCompute(s.cache, cache.Series, "all", func() ([]SeriesResponse, error) {
		series, err := s.series.FindAll()
		if err != nil {
			return nil, err
		}
		counts, err := s.posts.CountPublishedBySeries()
		if err != nil {
			return nil, err
		}

		responses := make([]SeriesResponse, 0, len(series))
		for _, sr := range series {
			responses = append(responses, SeriesResponse{
				ID:          sr.ID,
				Title:       sr.Title,
				Description: sr.Description,
				CoverImage:  sr.CoverImage,
				Color:       sr.Color,
				PostCount:   counts[sr.ID],
				CreatedAt:   sr.CreatedAt,
			})
		}
		return responses, nil
	})
}

func (s *SeriesService) Create(input SeriesInput) (*models.Series, error) {
	taken, err := s.series.ExistsByTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewConflictError(fmt.Sprintf("series %q already exists", input.Title))
	}

	color := input.Color
	if color == "" {
		color = s.colors.Pick()
	}
	series := &models.Series{
		Title:       input.Title,
		Description: input.Description,
		CoverImage:  input.CoverImage,
		Color:       color,
	}
	if err := s.series.Add(series); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.Series)

	s.logger.Info().Str("title", input.Title).Msg("series created")
	return series, nil
}

func (s *SeriesService) Update(id uuid.UUID, input SeriesInput) (*models.Series, error) {
	series, err := s.series.FindByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		series.Title = input.Title
	}
	if input.Description != nil {
		series.Description = input.Description
	}
	if input.CoverImage != nil {
		series.CoverImage = input.CoverImage
	}
	if input.Color != "" {
		series.Color = input.Color
	}
	if err := s.series.Update(series); err != nil {
		return nil, err
	}
	s.cache.Invalidate(append([]cache.Region{cache.Series}, cache.PostRegions...)...)

	return series, nil
}

func (s *SeriesService) Delete(id uuid.UUID) error {
	series, err := s.series.FindByID(id)
	if err != nil {
		return err
	}
	count, err := s.posts.CountBySeriesID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.NewBadRequestError(fmt.Sprintf("series %q still has %d posts", series.Title, count))
	}

	if err := s.series.Delete(id); err != nil {
		return err
	}
	s.cache.Invalidate(cache.Series)

	s.logger.Info().Str("title", series.Title).Msg("series deleted")
	return nil
}
