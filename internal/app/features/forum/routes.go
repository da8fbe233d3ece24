package forum

import (
	"github.com/go-chi/chi/v5"

	// register this feature's template set
	_ "github.com/sistercircle/sistercircle/internal/app/features/forum/views"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeFeed)
	r.Get("/events", h.ServeEvents)
	r.Post("/", h.HandleCreatePost)
	r.Post("/{id}/report", h.HandleReport)
	return r
}
