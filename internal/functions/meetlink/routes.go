// internal/functions/meetlink/routes.go
package meetlinkfn

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/createGoogleMeet", h.HandleCreateGoogleMeet)
	r.Post("/testGoogleCalendar", h.HandleTestGoogleCalendar)
	return r
}
