package login

import (
	"github.com/go-chi/chi/v5"

	// register this feature's template set
	_ "github.com/sistercircle/sistercircle/internal/app/features/login/views"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)
	return r
}
