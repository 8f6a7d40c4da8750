package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hungpc/blog-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
)

// DefaultCategoryName is assigned when metadata generation fails or yields
// no category.
const DefaultCategoryName = "Uncategorized"

const (
	generationTimeout  = 30 * time.Second
	maxPromptBodyChars = 4000
)

// GeneratedMetadata is the output of the generation step. Zero values stand
// in for anything the model could not produce.
type GeneratedMetadata struct {
	Category    string
	Tags        []string
	Description string
}

// MetadataGenerator fills in category, tags and description for a document.
// Implementations never return an error; a failed generation degrades to the
// "Uncategorized" defaults.
type MetadataGenerator interface {
	GenerateMetadata(title, content string) GeneratedMetadata
}

// AutoFillService asks an LLM for missing metadata, steering it toward the
// taxonomy that already exists so names converge instead of proliferating.
type AutoFillService struct {
	llm        llms.Model
	categories database.CategoryStore
	tags       database.TagStore
	logger     zerolog.Logger
}

func NewAutoFillService(llm llms.Model, categories database.CategoryStore, tags database.TagStore) *AutoFillService {
	return &AutoFillService{
		llm:        llm,
		categories: categories,
		tags:       tags,
		logger:     log.With().Str("service", "autofill").Logger(),
	}
}

func (s *AutoFillService) GenerateMetadata(title, content string) GeneratedMetadata {
	fallback := GeneratedMetadata{Category: DefaultCategoryName}

	// No model configured: run with defaults instead of failing.
	if s.llm == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	prompt := s.buildPrompt(title, content)
	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("title", title).Msg("metadata generation failed, using defaults")
		return fallback
	}

	generated := parseGeneratedMetadata(completion)
	if generated.Category == "" {
		generated.Category = DefaultCategoryName
	}
	s.logger.Info().
		Str("title", title).
		Str("category", generated.Category).
		Int("tags", len(generated.Tags)).
		Msg("generated metadata")
	return generated
}

func (s *AutoFillService) buildPrompt(title, content string) string {
	if len(content) > maxPromptBodyChars {
		content = content[:maxPromptBodyChars]
	}

	var b strings.Builder
	b.WriteString("You are tagging a technical blog post. Respond with exactly three lines:\n")
	b.WriteString("CATEGORY: <one category name>\n")
	b.WriteString("TAGS: <two to five comma-separated lowercase tags>\n")
	b.WriteString("DESCRIPTION: <one sentence under 160 characters>\n\n")

	if names := s.existingCategoryNames(); len(names) > 0 {
		fmt.Fprintf(&b, "Prefer one of the existing categories: %s\n", strings.Join(names, ", "))
	}
	if names := s.existingTagNames(); len(names) > 0 {
		fmt.Fprintf(&b, "Prefer existing tags where they fit: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintf(&b, "\nTitle: %s\n\nPost:\n%s\n", title, content)
	return b.String()
}

func (s *AutoFillService) existingCategoryNames() []string {
	categories, err := s.categories.FindAll()
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not list categories for prompt")
		return nil
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

func (s *AutoFillService) existingTagNames() []string {
	tags, err := s.tags.FindAll()
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not list tags for prompt")
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// parseGeneratedMetadata pulls the CATEGORY/TAGS/DESCRIPTION lines out of the
// completion. Unrecognized lines are ignored so minor format drift from the
// model does not break parsing.
func parseGeneratedMetadata(completion string) GeneratedMetadata {
	var generated GeneratedMetadata

	for _, line := range strings.Split(completion, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "CATEGORY:"):
			generated.Category = strings.TrimSpace(strings.TrimPrefix(line, "CATEGORY:"))
		case strings.HasPrefix(line, "TAGS:"):
			for _, tag := range strings.Split(strings.TrimPrefix(line, "TAGS:"), ",") {
				if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
					generated.Tags = append(generated.Tags, tag)
				}
			}
		case strings.HasPrefix(line, "DESCRIPTION:"):
			generated.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		}
	}
	return generated
}
