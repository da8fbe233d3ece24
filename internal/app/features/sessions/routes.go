package sessions

import (
	"github.com/go-chi/chi/v5"

	// register this feature's template set
	_ "github.com/sistercircle/sistercircle/internal/app/features/sessions/views"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeChat)
	r.Post("/{id}/reschedule", h.HandleReschedule)
	r.Post("/{id}/complete", h.HandleComplete)
	r.Post("/{id}/messages", h.HandlePostMessage)
	r.Post("/{id}/voice", h.HandleVoiceUpload)
	r.Get("/{id}/audio/{msgID}", h.ServeAudio)
	r.Get("/{id}/events", h.ServeEvents)
	return r
}
