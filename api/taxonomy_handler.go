package api

import (
	"encoding/json"
	"net/http"

	"github.com/hungpc/blog-backend/errs"
	"github.com/hungpc/blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type taxonomyHandler struct {
	responder  Responder
	logger     zerolog.Logger
	categories *services.CategoryService
	tags       *services.TagService
	series     *services.SeriesService
}

func newTaxonomyHandler(categories *services.CategoryService, tags *services.TagService, series *services.SeriesService) taxonomyHandler {
	logger := log.With().Str("handlerName", "taxonomyHandler").Logger()

	return taxonomyHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		categories: categories,
		tags:       tags,
		series:     series,
	}
}

func (h taxonomyHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := h.categories.List()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h taxonomyHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		category, err := h.categories.Create(req.Name, req.Color)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, category)
	}
}

func (h taxonomyHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathUUID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}

		category, err := h.categories.Update(categoryID, req.Name, req.Color)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, category)
	}
}

func (h taxonomyHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := pathUUID(r, "categoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.categories.Delete(categoryID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "deleted"})
	}
}

func (h taxonomyHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := h.tags.List()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h taxonomyHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		tag, err := h.tags.Create(req.Name, req.Color)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tag)
	}
}

func (h taxonomyHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := pathUUID(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}

		tag, err := h.tags.Update(tagID, req.Name, req.Color)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tag)
	}
}

func (h taxonomyHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := pathUUID(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tags.Delete(tagID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "deleted"})
	}
}

func (h taxonomyHandler) listSeries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := h.series.List()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, response)
	}
}

func (h taxonomyHandler) createSeries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req seriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}

		series, err := h.series.Create(services.SeriesInput{
			Title:       req.Title,
			Description: req.Description,
			CoverImage:  req.CoverImage,
			Color:       req.Color,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, series)
	}
}

func (h taxonomyHandler) updateSeries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seriesID, err := pathUUID(r, "seriesID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req seriesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request body"))
			return
		}

		series, err := h.series.Update(seriesID, services.SeriesInput{
			Title:       req.Title,
			Description: req.Description,
			CoverImage:  req.CoverImage,
			Color:       req.Color,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, series)
	}
}

func (h taxonomyHandler) deleteSeries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seriesID, err := pathUUID(r, "seriesID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.series.Delete(seriesID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "deleted"})
	}
}
