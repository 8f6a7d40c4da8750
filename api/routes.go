package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public read surface and the authenticated admin
// surface. Everything that mutates state or exposes drafts sits behind auth.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/posts", handlers.postHandler.listPosts())
		r.Get("/posts/{slug}", handlers.postHandler.getPostBySlug())
		r.Get("/posts/{slug}/related", handlers.postHandler.getRelatedPosts())
		r.Post("/posts/{slug}/visit", handlers.postHandler.visitPost())

		r.Get("/categories", handlers.taxonomyHandler.listCategories())
		r.Get("/tags", handlers.taxonomyHandler.listTags())
		r.Get("/series", handlers.taxonomyHandler.listSeries())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(auth.authenticate)

		r.Get("/admin/posts/preview/{slug}", handlers.postHandler.previewPost())
		r.Get("/admin/posts/stats", handlers.postHandler.getStats())
		r.Post("/admin/posts", handlers.postHandler.createPost())
		r.Put("/admin/posts/{postID}", handlers.postHandler.updatePost())
		r.Post("/admin/posts/{postID}/publish", handlers.postHandler.publishPost())
		r.Post("/admin/posts/{postID}/unpublish", handlers.postHandler.unpublishPost())
		r.Delete("/admin/posts/{postID}", handlers.postHandler.deletePost())

		r.Post("/admin/sync/posts/{postID}", handlers.syncHandler.syncPost())
		r.Post("/admin/sync/posts", handlers.syncHandler.syncAllPosts())

		r.Post("/admin/categories", handlers.taxonomyHandler.createCategory())
		r.Put("/admin/categories/{categoryID}", handlers.taxonomyHandler.updateCategory())
		r.Delete("/admin/categories/{categoryID}", handlers.taxonomyHandler.deleteCategory())

		r.Post("/admin/tags", handlers.taxonomyHandler.createTag())
		r.Put("/admin/tags/{tagID}", handlers.taxonomyHandler.updateTag())
		r.Delete("/admin/tags/{tagID}", handlers.taxonomyHandler.deleteTag())

		r.Post("/admin/series", handlers.taxonomyHandler.createSeries())
		r.Put("/admin/series/{seriesID}", handlers.taxonomyHandler.updateSeries())
		r.Delete("/admin/series/{seriesID}", handlers.taxonomyHandler.deleteSeries())
	})
}
