package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/cache"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/frontmatter"
	"github.com/hungpc/blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DocumentMirror is the slice of the git mirror the sync and post services
// consume. Tests substitute an in-memory fake.
type DocumentMirror interface {
	PullLatest() error
	ReadFile(relativePath string) (string, bool)
	WriteFile(relativePath, content string) error
	FindDocument(slug string) (string, bool)
	DocumentPath(slug, ext string) string
	CommitAndPush(message string) (string, error)
}

// SyncResult reports the outcome of syncing one post. A failed sync is an
// ordinary value, not an error: Success is false and Message says why.
type SyncResult struct {
	PostID        uuid.UUID `json:"postId"`
	Slug          string    `json:"slug"`
	Success       bool      `json:"success"`
	ContentLength int       `json:"contentLength"`
	Message       string    `json:"message,omitempty"`
}

// SyncAllResult aggregates a batch run. Skipped counts both posts with no
// document in the mirror and posts whose sync failed mid-update; the latter
// additionally land in Errors.
type SyncAllResult struct {
	Total       int       `json:"total"`
	Synced      int       `json:"synced"`
	Skipped     int       `json:"skipped"`
	Errors      []string  `json:"errors"`
	CompletedAt time.Time `json:"completedAt"`
}

// SyncService re-reads post documents from the git mirror and applies them to
// the database. Content is always overwritten; metadata fields update only
// when the document's frontmatter carries them.
type SyncService struct {
	mirror   DocumentMirror
	posts    database.PostStore
	postTags database.PostTagStore
	taxonomy *TaxonomyService
	cache    *cache.Store
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSyncService(mirror DocumentMirror, posts database.PostStore, postTags database.PostTagStore, taxonomy *TaxonomyService, cacheStore *cache.Store) *SyncService {
	return &SyncService{
		mirror:   mirror,
		posts:    posts,
		postTags: postTags,
		taxonomy: taxonomy,
		cache:    cacheStore,
		logger:   log.With().Str("service", "sync").Logger(),
		now:      time.Now,
	}
}

// SyncPost pulls the mirror and re-applies a single post's document. The
// returned error covers only the post lookup and the pull; everything after
// that is reported through the SyncResult.
func (s *SyncService) SyncPost(id uuid.UUID) (SyncResult, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return SyncResult{}, err
	}
	if err := s.mirror.PullLatest(); err != nil {
		return SyncResult{}, err
	}
	defer s.cache.Invalidate(cache.PostRegions...)

	result := s.applyDocument(post)
	if result.Success {
		s.logger.Info().Str("slug", post.Slug).Int("contentLength", result.ContentLength).Msg("post synced")
	} else {
		s.logger.Warn().Str("slug", post.Slug).Str("reason", result.Message).Msg("post sync failed")
	}
	return result, nil
}

// SyncAllPosts pulls the mirror once, then best-effort syncs every post. A
// single post's failure never aborts the loop. The returned error covers only
// the initial pull.
func (s *SyncService) SyncAllPosts() (SyncAllResult, error) {
	if err := s.mirror.PullLatest(); err != nil {
		return SyncAllResult{}, err
	}
	defer s.cache.Invalidate(cache.PostRegions...)

	posts, err := s.posts.FindAll()
	if err != nil {
		return SyncAllResult{}, err
	}

	result := SyncAllResult{Total: len(posts), Errors: []string{}}
	for _, post := range posts {
		outcome := s.applyDocument(post)
		switch {
		case outcome.Success:
			result.Synced++
		case outcome.Message == documentMissingMessage(post.Slug):
			result.Skipped++
		default:
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", post.Slug, outcome.Message))
		}
	}
	result.CompletedAt = s.now()

	s.logger.Info().
		Int("total", result.Total).
		Int("synced", result.Synced).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("batch sync completed")
	return result, nil
}

// applyDocument reads the post's document from the already-pulled worktree
// and writes it through to the database. It never returns an error; failures
// are encoded in the result.
func (s *SyncService) applyDocument(post *models.Post) SyncResult {
	result := SyncResult{PostID: post.ID, Slug: post.Slug}

	relativePath, ok := s.mirror.FindDocument(post.Slug)
	if !ok {
		result.Message = documentMissingMessage(post.Slug)
		return result
	}
	text, ok := s.mirror.ReadFile(relativePath)
	if !ok {
		result.Message = documentMissingMessage(post.Slug)
		return result
	}

	body := frontmatter.StripMetadataBlock(text)
	post.Content = body
	syncedAt := s.now()
	post.LastSyncedAt = &syncedAt

	var tagsToReplace []string
	haveTags := false

	if record := frontmatter.Parse(text); record != nil {
		if record.Title != nil && *record.Title != "" {
			post.Title = *record.Title
		}
		if record.Category != nil && *record.Category != "" {
			category, err := s.taxonomy.GetOrCreateCategory(*record.Category)
			if err != nil {
				result.Message = fmt.Sprintf("category upsert failed: %v", err)
				return result
			}
			post.CategoryID = category.ID
		}
		if record.Tags != nil {
			tagsToReplace = record.Tags
			haveTags = true
		}
		if record.Description != nil {
			post.Description = record.Description
		}
		if record.CoverImage != nil && *record.CoverImage != "" {
			post.CoverImage = record.CoverImage
		}
		if record.PublishedAt != nil {
			post.PublishedAt = record.PublishedAt
		}
	}

	if err := s.posts.Update(post); err != nil {
		result.Message = fmt.Sprintf("post update failed: %v", err)
		return result
	}

	if haveTags {
		tags, err := s.taxonomy.GetOrCreateTags(tagsToReplace)
		if err != nil {
			result.Message = fmt.Sprintf("tag upsert failed: %v", err)
			return result
		}
		tagIDs := make([]uuid.UUID, 0, len(tags))
		for _, tag := range tags {
			tagIDs = append(tagIDs, tag.ID)
		}
		if err := s.postTags.ReplaceForPost(post.ID, tagIDs); err != nil {
			result.Message = fmt.Sprintf("tag replacement failed: %v", err)
			return result
		}
	}

	result.Success = true
	result.ContentLength = len(body)
	return result
}

func documentMissingMessage(slug string) string {
	return fmt.Sprintf("no document found in mirror for slug %q", slug)
}
