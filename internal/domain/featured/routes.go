package featured

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the featured credit router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/pricing", h.GetPricing)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/packages", h.CreatePackage)
		r.Get("/packages", h.ListPackages)
		r.Get("/packages/{id}", h.GetPackage)
		r.Get("/stats", h.GetStats)
		r.Post("/jobs/{id}/feature", h.Feature)
		r.Delete("/jobs/{id}/feature", h.Unfeature)
	})

	return r
}
