package services

import (
	"testing"

	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/frontmatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResolveMetadataTitleCascade(t *testing.T) {
	record := &frontmatter.Record{Title: strPtr("B")}
	body := "# C\nsome text"

	resolved, err := ResolveMetadata(MetadataInput{Title: "A"}, record, body, nil)
	require.NoError(t, err)
	assert.Equal(t, "A", resolved.Title)

	resolved, err = ResolveMetadata(MetadataInput{}, record, body, nil)
	require.NoError(t, err)
	assert.Equal(t, "B", resolved.Title)

	resolved, err = ResolveMetadata(MetadataInput{}, nil, body, nil)
	require.NoError(t, err)
	assert.Equal(t, "C", resolved.Title)

	_, err = ResolveMetadata(MetadataInput{}, nil, "no heading here", nil)
	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
}

func TestResolveMetadataFrontmatterFields(t *testing.T) {
	record := &frontmatter.Record{
		Title:       strPtr("Title"),
		Category:    strPtr("Backend"),
		Tags:        []string{"go", "postgres"},
		Description: strPtr("a post"),
		CoverImage:  strPtr("https://img.example/cover.jpg"),
	}

	resolved, err := ResolveMetadata(MetadataInput{}, record, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Backend", resolved.Category)
	assert.Equal(t, []string{"go", "postgres"}, resolved.Tags)
	assert.Equal(t, "a post", resolved.Description)
	assert.Equal(t, "https://img.example/cover.jpg", resolved.CoverImage)
}

func TestResolveMetadataExplicitWinsOverFrontmatter(t *testing.T) {
	record := &frontmatter.Record{
		Title:    strPtr("Title"),
		Category: strPtr("Backend"),
		Tags:     []string{"go"},
	}
	explicit := MetadataInput{Category: "Frontend", Tags: []string{"react"}}

	resolved, err := ResolveMetadata(explicit, record, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Frontend", resolved.Category)
	assert.Equal(t, []string{"react"}, resolved.Tags)
}

func TestResolveMetadataCoverImageFallsBackToSearch(t *testing.T) {
	images := &fakeImageSearcher{url: "https://pexels.example/photo.jpg"}

	resolved, err := ResolveMetadata(MetadataInput{Title: "Kubernetes Basics"}, nil, "", images)
	require.NoError(t, err)
	assert.Equal(t, "https://pexels.example/photo.jpg", resolved.CoverImage)
	assert.Equal(t, 1, images.calls)

	// A frontmatter cover image short-circuits the search.
	images.calls = 0
	record := &frontmatter.Record{CoverImage: strPtr("https://img.example/own.jpg")}
	resolved, err = ResolveMetadata(MetadataInput{Title: "Kubernetes Basics"}, record, "", images)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/own.jpg", resolved.CoverImage)
	assert.Equal(t, 0, images.calls)
}

func TestResolveMetadataDeterministic(t *testing.T) {
	record := &frontmatter.Record{Title: strPtr("B"), Tags: []string{"go"}}
	body := "# C\ntext"

	first, err := ResolveMetadata(MetadataInput{}, record, body, nil)
	require.NoError(t, err)
	second, err := ResolveMetadata(MetadataInput{}, record, body, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractTitleFromMarkdown(t *testing.T) {
	assert.Equal(t, "Hello World", ExtractTitleFromMarkdown("# Hello World\n\nbody"))
	assert.Equal(t, "First", ExtractTitleFromMarkdown("intro\n# First\n# Second"))
	assert.Equal(t, "", ExtractTitleFromMarkdown("## only a subheading"))
	assert.Equal(t, "", ExtractTitleFromMarkdown(""))
}
