package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/cache"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/frontmatter"
	"github.com/hungpc/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const readingWordsPerMinute = 200

type CategoryInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type SeriesInfo struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Color string    `json:"color"`
}

type TagInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// PostResponse is the API shape of a post. Content and ReadingTime are only
// populated on detail reads, never in listings.
type PostResponse struct {
	ID           uuid.UUID     `json:"id"`
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	Description  *string       `json:"description,omitempty"`
	CoverImage   *string       `json:"coverImage,omitempty"`
	Content      string        `json:"content,omitempty"`
	ReadingTime  int           `json:"readingTime,omitempty"`
	Category     *CategoryInfo `json:"category,omitempty"`
	Series       *SeriesInfo   `json:"series,omitempty"`
	Tags         []TagInfo     `json:"tags"`
	Published    bool          `json:"published"`
	VisitCount   int64         `json:"visitCount"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	PublishedAt  *time.Time    `json:"publishedAt,omitempty"`
	LastSyncedAt *time.Time    `json:"lastSyncedAt,omitempty"`
}

type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"totalPages"`
}

type PostStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
}

// WriteBackResult reports the best-effort frontmatter write-back to the
// mirror. Callers decide explicitly what to do with a failure; the primary
// database write has already succeeded by the time this runs.
type WriteBackResult struct {
	Path       string
	Committed  bool
	CommitHash string
	Reason     string
}

// PostService owns the post lifecycle: creation from a mirror document,
// reads (cached), updates, publish state and deletion.
type PostService struct {
	posts      database.PostStore
	categories database.CategoryStore
	series     database.SeriesStore
	tags       database.TagStore
	postTags   database.PostTagStore
	taxonomy   *TaxonomyService
	mirror     DocumentMirror
	generator  MetadataGenerator
	images     CoverImageSearcher
	cache      *cache.Store
	logger     zerolog.Logger
	now        func() time.Time
}

func NewPostService(
	posts database.PostStore,
	categories database.CategoryStore,
	series database.SeriesStore,
	tags database.TagStore,
	postTags database.PostTagStore,
	taxonomy *TaxonomyService,
	mirror DocumentMirror,
	generator MetadataGenerator,
	images CoverImageSearcher,
	cacheStore *cache.Store,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		series:     series,
		tags:       tags,
		postTags:   postTags,
		taxonomy:   taxonomy,
		mirror:     mirror,
		generator:  generator,
		images:     images,
		cache:      cacheStore,
		logger:     log.With().Str("service", "post").Logger(),
		now:        time.Now,
	}
}

// CreatePostInput names the document to create from and optionally overrides
// metadata the frontmatter or the generation step would otherwise supply.
type CreatePostInput struct {
	Slug     string
	Metadata MetadataInput
}

// CreateFromGit creates a post from an existing document in the mirror. The
// document must exist; metadata resolves explicit > frontmatter > generated.
// The resolved frontmatter is written back to the mirror as a best-effort
// final step that never fails the creation.
func (s *PostService) CreateFromGit(input CreatePostInput) (*PostResponse, error) {
	taken, err := s.posts.ExistsBySlug(input.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewConflictError(fmt.Sprintf("post with slug %q already exists", input.Slug))
	}

	if err := s.mirror.PullLatest(); err != nil {
		return nil, err
	}
	relativePath, ok := s.mirror.FindDocument(input.Slug)
	if !ok {
		return nil, errs.NewBadRequestError(fmt.Sprintf("no document found in mirror for slug %q", input.Slug))
	}
	text, _ := s.mirror.ReadFile(relativePath)

	record := frontmatter.Parse(text)
	body := frontmatter.StripMetadataBlock(text)

	resolved, err := ResolveMetadata(input.Metadata, record, body, s.images)
	if err != nil {
		return nil, err
	}
	if resolved.Category == "" || len(resolved.Tags) == 0 || resolved.Description == "" {
		generated := s.generator.GenerateMetadata(resolved.Title, body)
		if resolved.Category == "" {
			resolved.Category = generated.Category
		}
		if len(resolved.Tags) == 0 {
			resolved.Tags = generated.Tags
		}
		if resolved.Description == "" {
			resolved.Description = generated.Description
		}
	}

	category, err := s.taxonomy.GetOrCreateCategory(resolved.Category)
	if err != nil {
		return nil, err
	}
	tags, err := s.taxonomy.GetOrCreateTags(resolved.Tags)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		Slug:         input.Slug,
		Title:        resolved.Title,
		Content:      body,
		CategoryID:   category.ID,
		Published:    true,
		PublishedAt:  &now,
		LastSyncedAt: &now,
	}
	if resolved.Description != "" {
		post.Description = &resolved.Description
	}
	if resolved.CoverImage != "" {
		post.CoverImage = &resolved.CoverImage
	}

	if err := s.posts.Add(post); err != nil {
		return nil, err
	}
	if err := s.postTags.ReplaceForPost(post.ID, tagIDs(tags)); err != nil {
		return nil, err
	}
	s.cache.Invalidate(postMutationRegions()...)

	writeBack := s.writeBack(post, tagNames(tags), fmt.Sprintf("Add post: %s", post.Slug))
	if !writeBack.Committed {
		s.logger.Warn().Str("slug", post.Slug).Str("reason", writeBack.Reason).Msg("frontmatter write-back skipped")
	}

	s.logger.Info().Str("slug", post.Slug).Str("category", category.Name).Msg("post created from mirror document")
	return s.buildResponse(post, true)
}

// List runs the filtered, paginated listing. Results are cached per full
// parameter tuple.
func (s *PostService) List(q database.PostQuery) (*PostListResponse, error) {
	return cache.GetOrCompute(s.cache, cache.Posts, listCacheKey(q), func() (*PostListResponse, error) {
		return s.listUncached(q)
	})
}

func (s *PostService) listUncached(q database.PostQuery) (*PostListResponse, error) {
	posts, total, err := s.posts.FindWithFilters(q)
	if err != nil {
		return nil, err
	}

	// Batch load every referenced entity: one query per type, never per row.
	categoryIDs := make([]uuid.UUID, 0, len(posts))
	seriesIDs := make([]uuid.UUID, 0)
	postIDs := make([]uuid.UUID, 0, len(posts))
	for _, post := range posts {
		categoryIDs = append(categoryIDs, post.CategoryID)
		if post.SeriesID != nil {
			seriesIDs = append(seriesIDs, *post.SeriesID)
		}
		postIDs = append(postIDs, post.ID)
	}

	categories, err := s.categories.FindAllByIDs(categoryIDs)
	if err != nil {
		return nil, err
	}
	series, err := s.series.FindAllByIDs(seriesIDs)
	if err != nil {
		return nil, err
	}
	postTags, err := s.postTags.FindByPostIDs(postIDs)
	if err != nil {
		return nil, err
	}
	tagIDSet := make([]uuid.UUID, 0, len(postTags))
	for _, pt := range postTags {
		tagIDSet = append(tagIDSet, pt.TagID)
	}
	tags, err := s.tags.FindAllByIDs(tagIDSet)
	if err != nil {
		return nil, err
	}

	categoryByID := make(map[uuid.UUID]*models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	seriesByID := make(map[uuid.UUID]*models.Series, len(series))
	for _, sr := range series {
		seriesByID[sr.ID] = sr
	}
	tagByID := make(map[uuid.UUID]*models.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	tagsByPost := make(map[uuid.UUID][]TagInfo, len(posts))
	for _, pt := range postTags {
		if tag, ok := tagByID[pt.TagID]; ok {
			tagsByPost[pt.PostID] = append(tagsByPost[pt.PostID], TagInfo{ID: tag.ID, Name: tag.Name, Color: tag.Color})
		}
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		response := summaryResponse(post)
		if category, ok := categoryByID[post.CategoryID]; ok {
			response.Category = &CategoryInfo{ID: category.ID, Name: category.Name, Color: category.Color}
		}
		if post.SeriesID != nil {
			if sr, ok := seriesByID[*post.SeriesID]; ok {
				response.Series = &SeriesInfo{ID: sr.ID, Title: sr.Title, Color: sr.Color}
			}
		}
		response.Tags = tagsByPost[post.ID]
		if response.Tags == nil {
			response.Tags = []TagInfo{}
		}
		responses = append(responses, response)
	}

	totalPages := 0
	if q.Size > 0 {
		totalPages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	return &PostListResponse{
		Posts:      responses,
		Total:      total,
		Page:       q.Page,
		Size:       q.Size,
		TotalPages: totalPages,
	}, nil
}

// GetBySlug serves the public detail read: published posts only, cached by
// slug, with content and reading time.
func (s *PostService) GetBySlug(slug string) (*PostResponse, error) {
	return cache.GetOrCompute(s.cache, cache.PostBySlug, slug, func() (*PostResponse, error) {
		post, err := s.posts.FindBySlug(slug)
		if err != nil {
			return nil, err
		}
		if !post.Published {
			return nil, errs.NewNotFoundError(fmt.Sprintf("post %q not found", slug))
		}
		return s.buildResponse(post, true)
	})
}

// Preview is the admin detail read: drafts allowed, never cached.
func (s *PostService) Preview(slug string) (*PostResponse, error) {
	post, err := s.posts.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(post, true)
}

// Related returns published posts from the same category, newest first.
func (s *PostService) Related(slug string, limit int) ([]PostResponse, error) {
	key := fmt.Sprintf("%s|%d", slug, limit)
	return cache.GetOrCompute(s.cache, cache.RelatedPosts, key, func() ([]PostResponse, error) {
		post, err := s.posts.FindBySlug(slug)
		if err != nil {
			return nil, err
		}
		related, err := s.posts.FindRelated(post.CategoryID, post.ID, limit)
		if err != nil {
			return nil, err
		}
		responses := make([]PostResponse, 0, len(related))
		for _, p := range related {
			response, err := s.buildResponse(p, false)
			if err != nil {
				return nil, err
			}
			responses = append(responses, *response)
		}
		return responses, nil
	})
}

// UpdatePostInput carries partial updates; nil pointers and a nil tag slice
// leave the corresponding field untouched.
type UpdatePostInput struct {
	Title       *string
	Category    *string
	Tags        []string
	Description *string
	CoverImage  *string
	SeriesID    *uuid.UUID
}

func (s *PostService) Update(id uuid.UUID, input UpdatePostInput) (*PostResponse, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && *input.Title != "" {
		post.Title = *input.Title
	}
	if input.Category != nil && *input.Category != "" {
		category, err := s.taxonomy.GetOrCreateCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		post.CategoryID = category.ID
	}
	if input.Description != nil {
		post.Description = input.Description
	}
	if input.CoverImage != nil {
		post.CoverImage = input.CoverImage
	}
	if input.SeriesID != nil {
		if _, err := s.series.FindByID(*input.SeriesID); err != nil {
			return nil, err
		}
		post.SeriesID = input.SeriesID
	}

	if err := s.posts.Update(post); err != nil {
		return nil, err
	}

	var updatedTags []*models.Tag
	if input.Tags != nil {
		updatedTags, err = s.taxonomy.GetOrCreateTags(input.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.postTags.ReplaceForPost(post.ID, tagIDs(updatedTags)); err != nil {
			return nil, err
		}
	}
	s.cache.Invalidate(postMutationRegions()...)

	names := tagNames(updatedTags)
	if input.Tags == nil {
		names, err = s.tagNamesForPost(post.ID)
		if err != nil {
			return nil, err
		}
	}
	writeBack := s.writeBack(post, names, fmt.Sprintf("Update post: %s", post.Slug))
	if !writeBack.Committed {
		s.logger.Warn().Str("slug", post.Slug).Str("reason", writeBack.Reason).Msg("frontmatter write-back skipped")
	}

	return s.buildResponse(post, true)
}

func (s *PostService) Publish(id uuid.UUID) (*PostResponse, error) {
	return s.setPublished(id, true)
}

func (s *PostService) Unpublish(id uuid.UUID) (*PostResponse, error) {
	return s.setPublished(id, false)
}

func (s *PostService) setPublished(id uuid.UUID, published bool) (*PostResponse, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, err
	}

	post.Published = published
	if published {
		now := s.now()
		post.PublishedAt = &now
	} else {
		post.PublishedAt = nil
	}

	if err := s.posts.Update(post); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.PostRegions...)

	s.logger.Info().Str("slug", post.Slug).Bool("published", published).Msg("publish state changed")
	return s.buildResponse(post, true)
}

func (s *PostService) Delete(id uuid.UUID) error {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.postTags.DeleteByPostID(post.ID); err != nil {
		return err
	}
	if err := s.posts.Delete(post.ID); err != nil {
		return err
	}
	s.cache.Invalidate(cache.PostRegions...)

	s.logger.Info().Str("slug", post.Slug).Msg("post deleted")
	return nil
}

// IncrementVisit bumps the visit counter. Listings tolerate a stale count, so
// no cache region is invalidated here.
func (s *PostService) IncrementVisit(slug string) error {
	post, err := s.posts.FindBySlug(slug)
	if err != nil {
		return err
	}
	post.VisitCount++
	return s.posts.Update(post)
}

func (s *PostService) Stats() (*PostStats, error) {
	total, err := s.posts.Count()
	if err != nil {
		return nil, err
	}
	published, err := s.posts.CountByPublished(true)
	if err != nil {
		return nil, err
	}
	return &PostStats{Total: total, Published: published, Drafts: total - published}, nil
}

// writeBack rewrites the document's frontmatter from the persisted post and
// commits. The mirror may be unreachable or the document gone; both are
// reasons, not errors.
func (s *PostService) writeBack(post *models.Post, tagNames []string, commitMessage string) WriteBackResult {
	relativePath, ok := s.mirror.FindDocument(post.Slug)
	if !ok {
		relativePath = s.mirror.DocumentPath(post.Slug, ".md")
	}
	text, _ := s.mirror.ReadFile(relativePath)

	record := &frontmatter.Record{
		Title:       &post.Title,
		Tags:        tagNames,
		Description: post.Description,
		CoverImage:  post.CoverImage,
		PublishedAt: post.PublishedAt,
	}
	if category, err := s.categories.FindByID(post.CategoryID); err == nil {
		record.Category = &category.Name
	}

	updated := frontmatter.Replace(text, record)
	if err := s.mirror.WriteFile(relativePath, updated); err != nil {
		return WriteBackResult{Path: relativePath, Reason: fmt.Sprintf("write failed: %v", err)}
	}
	hash, err := s.mirror.CommitAndPush(commitMessage)
	if err != nil {
		return WriteBackResult{Path: relativePath, Reason: fmt.Sprintf("commit failed: %v", err)}
	}
	return WriteBackResult{Path: relativePath, Committed: true, CommitHash: hash}
}

// buildResponse loads the referenced taxonomy rows for one post. Listing
// paths do their own batch loading and never come through here.
func (s *PostService) buildResponse(post *models.Post, includeContent bool) (*PostResponse, error) {
	var response PostResponse
	if includeContent {
		response = detailResponse(post)
	} else {
		response = summaryResponse(post)
	}

	if category, err := s.categories.FindByID(post.CategoryID); err == nil {
		response.Category = &CategoryInfo{ID: category.ID, Name: category.Name, Color: category.Color}
	}
	if post.SeriesID != nil {
		if sr, err := s.series.FindByID(*post.SeriesID); err == nil {
			response.Series = &SeriesInfo{ID: sr.ID, Title: sr.Title, Color: sr.Color}
		}
	}

	postTags, err := s.postTags.FindByPostID(post.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(postTags))
	for _, pt := range postTags {
		ids = append(ids, pt.TagID)
	}
	tags, err := s.tags.FindAllByIDs(ids)
	if err != nil {
		return nil, err
	}
	response.Tags = make([]TagInfo, 0, len(tags))
	for _, tag := range tags {
		response.Tags = append(response.Tags, TagInfo{ID: tag.ID, Name: tag.Name, Color: tag.Color})
	}

	return &response, nil
}

func (s *PostService) tagNamesForPost(postID uuid.UUID) ([]string, error) {
	postTags, err := s.postTags.FindByPostID(postID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(postTags))
	for _, pt := range postTags {
		ids = append(ids, pt.TagID)
	}
	tags, err := s.tags.FindAllByIDs(ids)
	if err != nil {
		return nil, err
	}
	return tagNames(tags), nil
}

func summaryResponse(post *models.Post) PostResponse {
	return PostResponse{
		ID:           post.ID,
		Slug:         post.Slug,
		Title:        post.Title,
		Description:  post.Description,
		CoverImage:   post.CoverImage,
		Published:    post.Published,
		VisitCount:   post.VisitCount,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
		PublishedAt:  post.PublishedAt,
		LastSyncedAt: post.LastSyncedAt,
	}
}

func detailResponse(post *models.Post) PostResponse {
	response := summaryResponse(post)
	response.Content = post.Content
	response.ReadingTime = ReadingTime(post.Content)
	return response
}

// ReadingTime estimates minutes to read at 200 words per minute, with a
// floor of one minute for any non-empty content.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	minutes := (words + readingWordsPerMinute - 1) / readingWordsPerMinute
	return minutes
}

// postMutationRegions is the invalidation set for mutations that can also
// touch taxonomy (create, metadata update).
func postMutationRegions() []cache.Region {
	return append(append([]cache.Region{}, cache.PostRegions...), cache.Categories, cache.Tags)
}

func listCacheKey(q database.PostQuery) string {
	return fmt.Sprintf("%d|%d|%s|%t|%s|%s|%s|%s|%s",
		q.Page, q.Size, q.SortField, q.SortDesc, q.Search, q.Category, q.Series, q.Status,
		strings.Join(q.Tags, ","))
}

func tagIDs(tags []*models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

func tagNames(tags []*models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
