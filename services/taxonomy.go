package services

import (
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TaxonomyService implements idempotent find-or-create for categories and
// tags. There is no transactional guard against two concurrent creates for
// the same unseen name; the unique constraint rejects the loser and we
// re-fetch instead of failing.
type TaxonomyService struct {
	categories database.CategoryStore
	tags       database.TagStore
	colors     *ColorPicker
	logger     zerolog.Logger
}

func NewTaxonomyService(categories database.CategoryStore, tags database.TagStore, colors *ColorPicker) *TaxonomyService {
	return &TaxonomyService{
		categories: categories,
		tags:       tags,
		colors:     colors,
		logger:     log.With().Str("service", "taxonomy").Logger(),
	}
}

// GetOrCreateCategory looks a category up by exact name and creates it with a
// palette color when absent.
func (s *TaxonomyService) GetOrCreateCategory(name string) (*models.Category, error) {
	category, err := s.categories.FindByName(name)
	if err == nil {
		return category, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	category = &models.Category{Name: name, Color: s.colors.Pick()}
	if err := s.categories.Add(category); err != nil {
		if errs.IsConflict(err) {
			// Lost the create race; the row exists now.
			return s.categories.FindByName(name)
		}
		return nil, err
	}
	s.logger.Info().Str("name", name).Str("color", category.Color).Msg("created category")
	return category, nil
}

// GetOrCreateTags upserts each name in order. Duplicate input names collapse
// to a single tag; the output preserves first-occurrence order.
func (s *TaxonomyService) GetOrCreateTags(names []string) ([]*models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]*models.Tag, 0, len(names))

	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, err := s.getOrCreateTag(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *TaxonomyService) getOrCreateTag(name string) (*models.Tag, error) {
	tag, err := s.tags.FindByName(name)
	if err == nil {
		return tag, nil
	}
	if !errs.IsNotFound(err) {
		return nil, err
	}

	tag = &models.Tag{Name: name, Color: s.colors.Pick()}
	if err := s.tags.Add(tag); err != nil {
		if errs.IsConflict(err) {
			return s.tags.FindByName(name)
		}
		return nil, err
	}
	s.logger.Info().Str("name", name).Str("color", tag.Color).Msg("created tag")
	return tag, nil
}
