package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/cache"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	svc        *PostService
	mirror     *fakeMirror
	posts      *fakePostStore
	categories *fakeCategoryStore
	series     *fakeSeriesStore
	tags       *fakeTagStore
	postTags   *fakePostTagStore
	generator  *fakeGenerator
	images     *fakeImageSearcher
	cache      *cache.Store
}

func newPostFixture() *postFixture {
	f := &postFixture{
		mirror:     newFakeMirror(),
		posts:      newFakePostStore(),
		categories: &fakeCategoryStore{},
		series:     &fakeSeriesStore{},
		tags:       &fakeTagStore{},
		postTags:   newFakePostTagStore(),
		generator:  &fakeGenerator{generated: GeneratedMetadata{Category: DefaultCategoryName}},
		images:     &fakeImageSearcher{},
		cache:      cache.New(24*time.Hour, 2000),
	}
	taxonomy := NewTaxonomyService(f.categories, f.tags, NewColorPicker(rand.New(rand.NewSource(1))))
	f.svc = NewPostService(f.posts, f.categories, f.series, f.tags, f.postTags,
		taxonomy, f.mirror, f.generator, f.images, f.cache)
	return f
}

const sampleDoc = "---\n" +
	"title: \"Hello\"\n" +
	"category: Backend\n" +
	"tags:\n  - java\n  - spring-boot\n" +
	"description: \"desc\"\n" +
	"coverImage: \"\"\n" +
	"publishedAt: null\n" +
	"---\n\n# Hello\nBody text"

func TestCreateFromGitWithFrontmatter(t *testing.T) {
	f := newPostFixture()
	f.mirror.files["content/hello.md"] = sampleDoc
	f.images.url = "https://pexels.example/hello.jpg"

	response, err := f.svc.CreateFromGit(CreatePostInput{Slug: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "hello", response.Slug)
	assert.Equal(t, "Hello", response.Title)
	assert.Equal(t, "# Hello\nBody text", response.Content)
	require.NotNil(t, response.Category)
	assert.Equal(t, "Backend", response.Category.Name)
	require.Len(t, response.Tags, 2)
	assert.True(t, response.Published)
	require.NotNil(t, response.CoverImage)
	assert.Equal(t, "https://pexels.example/hello.jpg", *response.CoverImage)

	// Frontmatter carried category, tags and description, so the
	// generator never ran.
	assert.Equal(t, 0, f.generator.calls)

	// The resolved frontmatter was written back and committed.
	assert.Len(t, f.mirror.commits, 1)
	assert.Contains(t, f.mirror.files["content/hello.md"], "coverImage: \"https://pexels.example/hello.jpg\"")
}

func TestCreateFromGitFillsMissingMetadataFromGenerator(t *testing.T) {
	f := newPostFixture()
	f.mirror.files["content/bare.md"] = "# Bare Post\n\nJust a body, no frontmatter."
	f.generator.generated = GeneratedMetadata{
		Category:    "DevOps",
		Tags:        []string{"ci", "docker"},
		Description: "Generated description.",
	}

	response, err := f.svc.CreateFromGit(CreatePostInput{Slug: "bare"})
	require.NoError(t, err)

	assert.Equal(t, "Bare Post", response.Title)
	require.NotNil(t, response.Category)
	assert.Equal(t, "DevOps", response.Category.Name)
	assert.Len(t, response.Tags, 2)
	require.NotNil(t, response.Description)
	assert.Equal(t, "Generated description.", *response.Description)
	assert.Equal(t, 1, f.generator.calls)
}

func TestCreateFromGitConflictOnExistingSlug(t *testing.T) {
	f := newPostFixture()
	_ = f.posts.Add(&models.Post{Slug: "hello", Title: "Hello", CategoryID: uuid.New()})

	_, err := f.svc.CreateFromGit(CreatePostInput{Slug: "hello"})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, 0, f.mirror.pulls)
}

func TestCreateFromGitMissingDocument(t *testing.T) {
	f := newPostFixture()

	_, err := f.svc.CreateFromGit(CreatePostInput{Slug: "nowhere"})
	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
}

func TestGetBySlugPublishedOnly(t *testing.T) {
	f := newPostFixture()
	category := &models.Category{Name: "Backend", Color: "#3b82f6"}
	_ = f.categories.Add(category)
	_ = f.posts.Add(&models.Post{Slug: "draft", Title: "Draft", Content: "body", CategoryID: category.ID, Published: false})
	_ = f.posts.Add(&models.Post{Slug: "live", Title: "Live", Content: "one two three", CategoryID: category.ID, Published: true})

	_, err := f.svc.GetBySlug("draft")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	response, err := f.svc.GetBySlug("live")
	require.NoError(t, err)
	assert.Equal(t, "Live", response.Title)
	assert.Equal(t, 1, response.ReadingTime)

	// Drafts stay reachable through the admin preview.
	preview, err := f.svc.Preview("draft")
	require.NoError(t, err)
	assert.Equal(t, "Draft", preview.Title)
}

func TestListBatchesAndCaches(t *testing.T) {
	f := newPostFixture()
	category := &models.Category{Name: "Backend", Color: "#3b82f6"}
	_ = f.categories.Add(category)
	tag := &models.Tag{Name: "go", Color: "#22c55e"}
	_ = f.tags.Add(tag)
	post := &models.Post{Slug: "a", Title: "A", CategoryID: category.ID, Published: true}
	_ = f.posts.Add(post)
	_ = f.postTags.ReplaceForPost(post.ID, []uuid.UUID{tag.ID})

	q := database.PostQuery{Page: 0, Size: 10, SortField: "createdAt"}
	first, err := f.svc.List(q)
	require.NoError(t, err)
	require.Len(t, first.Posts, 1)
	assert.Equal(t, int64(1), first.Total)
	require.NotNil(t, first.Posts[0].Category)
	assert.Equal(t, "Backend", first.Posts[0].Category.Name)
	require.Len(t, first.Posts[0].Tags, 1)
	assert.Empty(t, first.Posts[0].Content)

	// Second read is served from cache: adding a post without invalidating
	// does not change the result.
	_ = f.posts.Add(&models.Post{Slug: "b", Title: "B", CategoryID: category.ID, Published: true})
	cached, err := f.svc.List(q)
	require.NoError(t, err)
	assert.Len(t, cached.Posts, 1)
}

func TestPublishAndUnpublish(t *testing.T) {
	f := newPostFixture()
	category := &models.Category{Name: "Backend", Color: "#3b82f6"}
	_ = f.categories.Add(category)
	post := &models.Post{Slug: "p", Title: "P", CategoryID: category.ID}
	_ = f.posts.Add(post)

	published, err := f.svc.Publish(post.ID)
	require.NoError(t, err)
	assert.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)

	unpublished, err := f.svc.Unpublish(post.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	assert.Nil(t, unpublished.PublishedAt)
}

func TestDeleteRemovesTagAssociations(t *testing.T) {
	f := newPostFixture()
	category := &models.Category{Name: "Backend", Color: "#3b82f6"}
	_ = f.categories.Add(category)
	post := &models.Post{Slug: "gone", Title: "Gone", CategoryID: category.ID}
	_ = f.posts.Add(post)
	_ = f.postTags.ReplaceForPost(post.ID, []uuid.UUID{uuid.New()})

	require.NoError(t, f.svc.Delete(post.ID))

	_, err := f.posts.FindByID(post.ID)
	require.Error(t, err)
	rows, _ := f.postTags.FindByPostID(post.ID)
	assert.Empty(t, rows)
}

func TestStats(t *testing.T) {
	f := newPostFixture()
	category := uuid.New()
	_ = f.posts.Add(&models.Post{Slug: "a", CategoryID: category, Published: true})
	_ = f.posts.Add(&models.Post{Slug: "b", CategoryID: category, Published: true})
	_ = f.posts.Add(&models.Post{Slug: "c", CategoryID: category, Published: false})

	stats, err := f.svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Published)
	assert.Equal(t, int64(1), stats.Drafts)
}

func TestIncrementVisit(t *testing.T) {
	f := newPostFixture()
	post := &models.Post{Slug: "v", CategoryID: uuid.New()}
	_ = f.posts.Add(post)

	require.NoError(t, f.svc.IncrementVisit("v"))
	require.NoError(t, f.svc.IncrementVisit("v"))

	updated, _ := f.posts.FindByID(post.ID)
	assert.Equal(t, int64(2), updated.VisitCount)
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("a few words"))

	long := ""
	for i := 0; i < 450; i++ {
		long += "word "
	}
	assert.Equal(t, 3, ReadingTime(long))
}
