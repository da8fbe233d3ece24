package authgoogle

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleStart)
	r.Get("/callback", h.HandleCallback)
	return r
}
