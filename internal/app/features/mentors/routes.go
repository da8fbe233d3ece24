package mentors

import (
	"github.com/go-chi/chi/v5"

	// register this feature's template set
	_ "github.com/sistercircle/sistercircle/internal/app/features/mentors/views"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeDirectory)
	r.Post("/{id}/request", h.HandleRequestSession)
	return r
}
