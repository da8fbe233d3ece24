// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/sistercircle/sistercircle/internal/app/features/errors"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/system/htmlsanitize"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/app/system/viewdata"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the member's own profile page and editor.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type profileFormData struct {
	viewdata.BaseVM
	User      *models.User
	Interests string
	Error     string
	Saved     bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, myID, ok := currentUserID(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, myID)
	if err != nil {
		h.Log.Error("profile load failed", zap.Error(err))
		http.Error(w, "could not load your profile", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "profile", profileFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Your profile"),
		User:      u,
		Interests: strings.Join(u.Interests, ", "),
		Saved:     r.URL.Query().Get("saved") == "1",
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleProfilePost(w http.ResponseWriter, r *http.Request) {
	_, myID, ok := currentUserID(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	upd := userstore.ProfileUpdate{
		FullName:     strings.TrimSpace(r.FormValue("full_name")),
		Role:         r.FormValue("role"),
		Bio:          htmlsanitize.Strip(strings.TrimSpace(r.FormValue("bio"))),
		Interests:    splitInterests(r.FormValue("interests")),
		Availability: htmlsanitize.Strip(strings.TrimSpace(r.FormValue("availability"))),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, myID)
	if err != nil {
		http.Error(w, "could not load your profile", http.StatusInternalServerError)
		return
	}

	// Admins keep their role; everyone else picks mentor/mentee/both.
	if u.Role == models.RoleAdmin {
		upd.Role = models.RoleAdmin
	} else if !models.ValidRole(upd.Role) || upd.Role == models.RoleAdmin {
		h.renderError(w, r, u, upd, "Please choose how you want to participate.")
		return
	}

	if upd.FullName == "" {
		h.renderError(w, r, u, upd, "Please enter your name.")
		return
	}

	if err := h.Users.UpdateProfile(ctx, myID, upd); err != nil {
		h.Log.Error("profile update failed", zap.Error(err))
		http.Error(w, "could not save your profile", http.StatusInternalServerError)
		return
	}

	// Refresh the cached session identity so the header shows the new name.
	if sessUser, signedIn := auth.CurrentUser(r); signedIn {
		sessUser.Name = upd.FullName
		sessUser.Role = upd.Role
		if err := auth.SignIn(w, r, sessUser); err != nil {
			h.Log.Warn("session refresh failed", zap.Error(err))
		}
	}

	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, u *models.User, upd userstore.ProfileUpdate, msg string) {
	shown := *u
	shown.FullName = upd.FullName
	shown.Bio = upd.Bio
	shown.Availability = upd.Availability
	templates.Render(w, r, "profile", profileFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Your profile"),
		User:      &shown,
		Interests: strings.Join(upd.Interests, ", "),
		Error:     msg,
	})
}

// helpers

func currentUserID(r *http.Request) (*auth.SessionUser, primitive.ObjectID, bool) {
	me, ok := auth.CurrentUser(r)
	if !ok {
		return nil, primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(me.ID)
	if err != nil {
		return nil, primitive.NilObjectID, false
	}
	return me, id, true
}

func splitInterests(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
