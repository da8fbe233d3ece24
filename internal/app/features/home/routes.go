package home

import (
	"github.com/go-chi/chi/v5"

	// register this feature's template set
	_ "github.com/sistercircle/sistercircle/internal/app/features/home/views"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	return r
}
