package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/cache"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type TagService struct {
	tags     database.TagStore
	postTags database.PostTagStore
	colors   *ColorPicker
	cache    *cache.Store
	logger   zerolog.Logger
}

func NewTagService(tags database.TagStore, postTags database.PostTagStore, colors *ColorPicker, cacheStore *cache.Store) *TagService {
	return &TagService{
		tags:     tags,
		postTags: postTags,
		colors:   colors,
		cache:    cacheStore,
		logger:   log.With().Str("service", "tag").Logger(),
	}
}

func (s *TagService) List() ([]*models.Tag, error) {
	return cache.GetOrCompute(s.cache, cache.Tags, "all", func() ([]*models.Tag, error) {
		return s.tags.FindAll()
	})
}

func (s *TagService) Create(name, color string) (*models.Tag, error) {
	if _, err := s.tags.FindByName(name); err == nil {
		return nil, errs.NewConflictError(fmt.Sprintf("tag %q already exists", name))
	} else if !errs.IsNotFound(err) {
		return nil, err
	}

	if color == "" {
		color = s.colors.Pick()
	}
	tag := &models.Tag{Name: name, Color: color}
	if err := s.tags.Add(tag); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.Tags)

	s.logger.Info().Str("name", name).Msg("tag created")
	return tag, nil
}

func (s *TagService) Update(id uuid.UUID, name, color string) (*models.Tag, error) {
	tag, err := s.tags.FindByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		tag.Name = name
	}
	if color != "" {
		tag.Color = color
	}
	if err := s.tags.Update(tag); err != nil {
		return nil, err
	}
	s.cache.Invalidate(append([]cache.Region{cache.Tags}, cache.PostRegions...)...)

	return tag, nil
}

func (s *TagService) Delete(id uuid.UUID) error {
	tag, err := s.tags.FindByID(id)
	if err != nil {
		return err
	}
	count, err := s.postTags.CountByTagID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.NewBadRequestError(fmt.Sprintf("tag %q is still attached to %d posts", tag.Name, count))
	}

	if err := s.tags.Delete(id); err != nil {
		return err
	}
	s.cache.Invalidate(cache.Tags)

	s.logger.Info().Str("name", tag.Name).Msg("tag deleted")
	return nil
}
