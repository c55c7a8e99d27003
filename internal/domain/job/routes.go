package job

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the job router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
	})

	r.Get("/featured", h.ListFeatured)
	r.Get("/{id}", h.GetByID)

	return r
}
