package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/app/system/viewdata"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the landing page.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	// Signed-in members land on the mentor directory.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/mentors", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var featured []models.User
	mentors, err := h.Users.ListMentors(ctx)
	if err != nil {
		h.Log.Warn("landing page mentor preview failed", zap.Error(err))
	} else {
		if len(mentors) > 6 {
			mentors = mentors[:6]
		}
		featured = mentors
	}

	data := struct {
		viewdata.BaseVM
		Featured []models.User
	}{
		BaseVM:   viewdata.NewBaseVM(r, "Welcome"),
		Featured: featured,
	}

	templates.Render(w, r, "home", data)
}
