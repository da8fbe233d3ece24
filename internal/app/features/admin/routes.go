package admin

import (
	"github.com/go-chi/chi/v5"

	// register this feature's template set
	_ "github.com/sistercircle/sistercircle/internal/app/features/admin/views"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/domain/models"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.RoleAdmin))
	r.Get("/", h.ServeDashboard)
	r.Get("/users", h.ServeUsers)
	r.Post("/users/{id}/suspend", h.HandleSuspend)
	r.Post("/users/{id}/activate", h.HandleActivate)
	r.Get("/moderation", h.ServeModeration)
	r.Post("/moderation/{id}/resolve", h.HandleResolve)
	return r
}
