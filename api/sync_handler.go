package api

import (
	"net/http"

	"github.com/hungpc/blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type syncHandler struct {
	responder Responder
	logger    zerolog.Logger
	sync      *services.SyncService
}

func newSyncHandler(sync *services.SyncService) syncHandler {
	logger := log.With().Str("handlerName", "syncHandler").Logger()

	return syncHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sync:      sync,
	}
}

// syncPost re-reads one post's document from the mirror. A failed sync is a
// 200 with success=false in the body; only lookup and pull errors map to
// error statuses.
func (h syncHandler) syncPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("subject", subjectFromCtx(r.Context())).Str("postID", postID.String()).Msg("sync requested")
		result, err := h.sync.SyncPost(postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// syncAllPosts runs the batch sync synchronously; the request blocks for the
// duration of the run.
func (h syncHandler) syncAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info().Str("subject", subjectFromCtx(r.Context())).Msg("batch sync requested")
		result, err := h.sync.SyncAllPosts()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}
