package services

import (
	"regexp"
	"strings"

	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/frontmatter"
)

var headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// MetadataInput carries explicit, caller-supplied metadata. Empty strings and
// empty slices mean "not supplied".
type MetadataInput struct {
	Title       string
	Category    string
	Tags        []string
	Description string
	CoverImage  string
}

// ResolvedMetadata is the per-field outcome of the resolution cascade.
// Category, Tags and Description may still be empty here; the caller fills
// them through the generation step when it wants them populated.
type ResolvedMetadata struct {
	Title       string
	Category    string
	Tags        []string
	Description string
	CoverImage  string
}

// CoverImageSearcher looks up a cover image URL for a title. An empty return
// is a valid no-result outcome, never an error.
type CoverImageSearcher interface {
	SearchCoverImage(title string) string
}

// ResolveMetadata applies, per field, the first non-empty of: explicit input,
// parsed frontmatter, field-specific fallback. Title falls back to the first
// markdown H1 in the body and is the only field that must resolve; category,
// tags and description have no local fallback; coverImage falls back to an
// image search keyed by the resolved title.
func ResolveMetadata(explicit MetadataInput, record *frontmatter.Record, body string, images CoverImageSearcher) (ResolvedMetadata, error) {
	var resolved ResolvedMetadata

	resolved.Title = explicit.Title
	if resolved.Title == "" && record != nil && record.Title != nil {
		resolved.Title = strings.TrimSpace(*record.Title)
	}
	if resolved.Title == "" {
		resolved.Title = ExtractTitleFromMarkdown(body)
	}
	if resolved.Title == "" {
		return ResolvedMetadata{}, errs.NewBadRequestError("post title could not be resolved from input, frontmatter or document body")
	}

	resolved.Category = explicit.Category
	if resolved.Category == "" && record != nil && record.Category != nil {
		resolved.Category = strings.TrimSpace(*record.Category)
	}

	resolved.Tags = explicit.Tags
	if len(resolved.Tags) == 0 && record != nil {
		resolved.Tags = record.Tags
	}

	resolved.Description = explicit.Description
	if resolved.Description == "" && record != nil && record.Description != nil {
		resolved.Description = strings.TrimSpace(*record.Description)
	}

	resolved.CoverImage = explicit.CoverImage
	if resolved.CoverImage == "" && record != nil && record.CoverImage != nil {
		resolved.CoverImage = strings.TrimSpace(*record.CoverImage)
	}
	if resolved.CoverImage == "" && images != nil {
		resolved.CoverImage = images.SearchCoverImage(resolved.Title)
	}

	return resolved, nil
}

// ExtractTitleFromMarkdown returns the text of the first top-level heading,
// or "" when the body has none.
func ExtractTitleFromMarkdown(body string) string {
	match := headingPattern.FindStringSubmatch(body)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
