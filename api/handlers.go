package api

import (
	"github.com/hungpc/blog-backend/services"
)

type routeHandlers struct {
	postHandler     postHandler
	taxonomyHandler taxonomyHandler
	syncHandler     syncHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies) *routeHandlers {
	return &routeHandlers{
		postHandler:     newPostHandler(deps.Posts),
		taxonomyHandler: newTaxonomyHandler(deps.Categories, deps.Tags, deps.Series),
		syncHandler:     newSyncHandler(deps.Sync),
	}
}

// Dependencies carries the wired services the router serves.
type Dependencies struct {
	Posts      *services.PostService
	Categories *services.CategoryService
	Tags       *services.TagService
	Series     *services.SeriesService
	Sync       *services.SyncService
}
