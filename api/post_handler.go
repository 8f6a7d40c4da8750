package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hungpc/blog-backend/database"
	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultRelatedLimit = 3

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     *services.PostService
}

func newPostHandler(posts *services.PostService) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
	}
}

// listPosts serves the filtered, paginated listing. Tag names arrive
// comma-separated and are ANDed together.
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		q := database.PostQuery{
			Page:      queryInt(query.Get("page"), 0),
			Size:      queryInt(query.Get("size"), 10),
			SortField: query.Get("sort"),
			SortDesc:  query.Get("order") != "asc",
			Search:    query.Get("search"),
			Category:  query.Get("category"),
			Series:    query.Get("series"),
			Status:    strings.ToUpper(query.Get("status")),
		}
		if q.SortField == "" {
			q.SortField = "createdAt"
		}
		if tags := query.Get("tags"); tags != "" {
			for _, tag := range strings.Split(tags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					q.Tags = append(q.Tags, tag)
				}
			}
		}

		response, err := h.posts.List(q)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h postHandler) getPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		response, err := h.posts.GetBySlug(slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

// previewPost is the admin read: drafts included.
func (h postHandler) previewPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		response, err := h.posts.Preview(slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h postHandler) getRelatedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}
		limit := queryInt(r.URL.Query().Get("limit"), defaultRelatedLimit)

		response, err := h.posts.Related(slug, limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		response, err := h.posts.CreateFromGit(services.CreatePostInput{
			Slug: req.Slug,
			Metadata: services.MetadataInput{
				Title:       req.Title,
				Category:    req.Category,
				Tags:        req.Tags,
				Description: req.Description,
				CoverImage:  req.CoverImage,
			},
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, response)
	}
}

func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req updatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		response, err := h.posts.Update(postID, services.UpdatePostInput{
			Title:       req.Title,
			Category:    req.Category,
			Tags:        req.Tags,
			Description: req.Description,
			CoverImage:  req.CoverImage,
			SeriesID:    req.SeriesID,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h postHandler) publishPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response, err := h.posts.Publish(postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h postHandler) unpublishPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response, err := h.posts.Unpublish(postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.posts.Delete(postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "deleted"})
	}
}

func (h postHandler) visitPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		if err := h.posts.IncrementVisit(slug); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "counted"})
	}
}

func (h postHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.posts.Stats()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

func queryInt(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
