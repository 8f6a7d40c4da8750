package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/models"
)

// In-memory implementations of the storage ports and the mirror, shared by
// the service tests. Slices keep iteration order deterministic.

type fakePostStore struct {
	posts []*models.Post
	// updateErr forces Update to fail for the post with the given slug.
	updateErr map[string]error
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{updateErr: map[string]error{}}
}

func (f *fakePostStore) FindAll() ([]*models.Post, error) {
	return append([]*models.Post{}, f.posts...), nil
}

func (f *fakePostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errs.NewNotFoundError("post not found")
}

func (f *fakePostStore) FindBySlug(slug string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, errs.NewNotFoundError("post not found")
}

func (f *fakePostStore) ExistsBySlug(slug string) (bool, error) {
	_, err := f.FindBySlug(slug)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakePostStore) FindWithFilters(q database.PostQuery) ([]*models.Post, int64, error) {
	matched := make([]*models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		if q.Status == "PUBLISHED" && !p.Published {
			continue
		}
		if q.Status == "DRAFT" && p.Published {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, p)
	}
	total := int64(len(matched))
	start := q.Page * q.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Size
	if q.Size <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakePostStore) FindRelated(categoryID, excludeID uuid.UUID, limit int) ([]*models.Post, error) {
	var related []*models.Post
	for _, p := range f.posts {
		if p.CategoryID == categoryID && p.Published && p.ID != excludeID {
			related = append(related, p)
		}
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (f *fakePostStore) Count() (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakePostStore) CountByPublished(published bool) (int64, error) {
	var count int64
	for _, p := range f.posts {
		if p.Published == published {
			count++
		}
	}
	return count, nil
}

func (f *fakePostStore) CountByCategoryID(categoryID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range f.posts {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakePostStore) CountBySeriesID(seriesID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range f.posts {
		if p.SeriesID != nil && *p.SeriesID == seriesID {
			count++
		}
	}
	return count, nil
}

func (f *fakePostStore) CountPublishedByCategory() (map[uuid.UUID]int64, error) {
	counts := map[uuid.UUID]int64{}
	for _, p := range f.posts {
		if p.Published {
			counts[p.CategoryID]++
		}
	}
	return counts, nil
}

func (f *fakePostStore) CountPublishedBySeries() (map[uuid.UUID]int64, error) {
	counts := map[uuid.UUID]int64{}
	for _, p := range f.posts {
		if p.Published && p.SeriesID != nil {
			counts[*p.SeriesID]++
		}
	}
	return counts, nil
}

func (f *fakePostStore) Add(post *models.Post) error {
	if taken, _ := f.ExistsBySlug(post.Slug); taken {
		return errs.NewUniqueViolationError("post", post.Slug)
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	f.posts = append(f.posts, post)
	return nil
}

func (f *fakePostStore) Update(post *models.Post) error {
	if err, ok := f.updateErr[post.Slug]; ok {
		return err
	}
	for i, p := range f.posts {
		if p.ID == post.ID {
			f.posts[i] = post
			return nil
		}
	}
	return errs.NewNotFoundError("post not found")
}

func (f *fakePostStore) Delete(id uuid.UUID) error {
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("post not found")
}

type fakeCategoryStore struct {
	categories []*models.Category
	// addErr forces the next Add to fail once, for conflict-race tests.
	addErr error
	// findMisses makes the next N FindByName calls miss, simulating a
	// concurrent writer that wins the create race after our lookup.
	findMisses int
}

func (f *fakeCategoryStore) FindAll() ([]*models.Category, error) {
	return append([]*models.Category{}, f.categories...), nil
}

func (f *fakeCategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errs.NewNotFoundError("category not found")
}

func (f *fakeCategoryStore) FindByName(name string) (*models.Category, error) {
	if f.findMisses > 0 {
		f.findMisses--
		return nil, errs.NewNotFoundError("category not found")
	}
	for _, c := range f.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, errs.NewNotFoundError("category not found")
}

func (f *fakeCategoryStore) FindAllByIDs(ids []uuid.UUID) ([]*models.Category, error) {
	var result []*models.Category
	for _, id := range ids {
		if c, err := f.FindByID(id); err == nil {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeCategoryStore) ExistsByName(name string) (bool, error) {
	_, err := f.FindByName(name)
	return err == nil, nil
}

func (f *fakeCategoryStore) Add(category *models.Category) error {
	if f.addErr != nil {
		err := f.addErr
		f.addErr = nil
		return err
	}
	if taken, _ := f.ExistsByName(category.Name); taken {
		return errs.NewUniqueViolationError("category", category.Name)
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	f.categories = append(f.categories, category)
	return nil
}

func (f *fakeCategoryStore) Update(category *models.Category) error {
	for i, c := range f.categories {
		if c.ID == category.ID {
			f.categories[i] = category
			return nil
		}
	}
	return errs.NewNotFoundError("category not found")
}

func (f *fakeCategoryStore) Delete(id uuid.UUID) error {
	for i, c := range f.categories {
		if c.ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("category not found")
}

type fakeTagStore struct {
	tags []*models.Tag
}

func (f *fakeTagStore) FindAll() ([]*models.Tag, error) {
	return append([]*models.Tag{}, f.tags...), nil
}

func (f *fakeTagStore) FindByID(id uuid.UUID) (*models.Tag, error) {
	for _, t := range f.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, errs.NewNotFoundError("tag not found")
}

func (f *fakeTagStore) FindByName(name string) (*models.Tag, error) {
	for _, t := range f.tags {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, errs.NewNotFoundError("tag not found")
}

func (f *fakeTagStore) FindAllByIDs(ids []uuid.UUID) ([]*models.Tag, error) {
	var result []*models.Tag
	for _, id := range ids {
		if t, err := f.FindByID(id); err == nil {
			result = append(result, t)
		}
	}
	return result, nil
}

func (f *fakeTagStore) Add(tag *models.Tag) error {
	if _, err := f.FindByName(tag.Name); err == nil {
		return errs.NewUniqueViolationError("tag", tag.Name)
	}
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	f.tags = append(f.tags, tag)
	return nil
}

func (f *fakeTagStore) Update(tag *models.Tag) error {
	for i, t := range f.tags {
		if t.ID == tag.ID {
			f.tags[i] = tag
			return nil
		}
	}
	return errs.NewNotFoundError("tag not found")
}

func (f *fakeTagStore) Delete(id uuid.UUID) error {
	for i, t := range f.tags {
		if t.ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("tag not found")
}

type fakeSeriesStore struct {
	series []*models.Series
}

func (f *fakeSeriesStore) FindAll() ([]*models.Series, error) {
	return append([]*models.Series{}, f.series...), nil
}

func (f *fakeSeriesStore) FindByID(id uuid.UUID) (*models.Series, error) {
	for _, s := range f.series {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errs.NewNotFoundError("series not found")
}

func (f *fakeSeriesStore) FindAllByIDs(ids []uuid.UUID) ([]*models.Series, error) {
	var result []*models.Series
	for _, id := range ids {
		if s, err := f.FindByID(id); err == nil {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSeriesStore) ExistsByTitle(title string) (bool, error) {
	for _, s := range f.series {
		if s.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSeriesStore) Add(series *models.Series) error {
	if taken, _ := f.ExistsByTitle(series.Title); taken {
		return errs.NewUniqueViolationError("series", series.Title)
	}
	if series.ID == uuid.Nil {
		series.ID = uuid.New()
	}
	f.series = append(f.series, series)
	return nil
}

func (f *fakeSeriesStore) Update(series *models.Series) error {
	for i, s := range f.series {
		if s.ID == series.ID {
			f.series[i] = series
			return nil
		}
	}
	return errs.NewNotFoundError("series not found")
}

func (f *fakeSeriesStore) Delete(id uuid.UUID) error {
	for i, s := range f.series {
		if s.ID == id {
			f.series = append(f.series[:i], f.series[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFoundError("series not found")
}

type fakePostTagStore struct {
	byPost map[uuid.UUID][]uuid.UUID
}

func newFakePostTagStore() *fakePostTagStore {
	return &fakePostTagStore{byPost: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakePostTagStore) FindByPostID(postID uuid.UUID) ([]*models.PostTag, error) {
	var result []*models.PostTag
	for _, tagID := range f.byPost[postID] {
		result = append(result, &models.PostTag{PostID: postID, TagID: tagID})
	}
	return result, nil
}

func (f *fakePostTagStore) FindByPostIDs(postIDs []uuid.UUID) ([]*models.PostTag, error) {
	var result []*models.PostTag
	for _, postID := range postIDs {
		rows, _ := f.FindByPostID(postID)
		result = append(result, rows...)
	}
	return result, nil
}

func (f *fakePostTagStore) CountByTagID(tagID uuid.UUID) (int64, error) {
	var count int64
	for _, tagIDs := range f.byPost {
		for _, id := range tagIDs {
			if id == tagID {
				count++
			}
		}
	}
	return count, nil
}

func (f *fakePostTagStore) ReplaceForPost(postID uuid.UUID, tagIDs []uuid.UUID) error {
	f.byPost[postID] = append([]uuid.UUID{}, tagIDs...)
	return nil
}

func (f *fakePostTagStore) DeleteByPostID(postID uuid.UUID) error {
	delete(f.byPost, postID)
	return nil
}

// fakeMirror keeps documents in a map keyed by relative path under "content".
type fakeMirror struct {
	files   map[string]string
	pulls   int
	pullErr error
	commits []string
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{files: map[string]string{}}
}

func (f *fakeMirror) PullLatest() error {
	f.pulls++
	return f.pullErr
}

func (f *fakeMirror) ReadFile(relativePath string) (string, bool) {
	content, ok := f.files[relativePath]
	return content, ok
}

func (f *fakeMirror) WriteFile(relativePath, content string) error {
	f.files[relativePath] = content
	return nil
}

func (f *fakeMirror) FindDocument(slug string) (string, bool) {
	for _, ext := range []string{".md", ".mdx"} {
		path := f.DocumentPath(slug, ext)
		if _, ok := f.files[path]; ok {
			return path, true
		}
	}
	return "", false
}

func (f *fakeMirror) DocumentPath(slug, ext string) string {
	return "content/" + slug + ext
}

func (f *fakeMirror) CommitAndPush(message string) (string, error) {
	f.commits = append(f.commits, message)
	return fmt.Sprintf("hash-%d", len(f.commits)), nil
}

type fakeGenerator struct {
	generated GeneratedMetadata
	calls     int
}

func (f *fakeGenerator) GenerateMetadata(title, content string) GeneratedMetadata {
	f.calls++
	return f.generated
}

type fakeImageSearcher struct {
	url   string
	calls int
}

func (f *fakeImageSearcher) SearchCoverImage(title string) string {
	f.calls++
	return f.url
}

var errBoom = errors.New("boom")
