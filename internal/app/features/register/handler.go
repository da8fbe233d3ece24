// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/system/authutil"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/app/system/viewdata"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type registerFormData struct {
	viewdata.BaseVM
	Error     string
	FullName  string
	Email     string
	Role      string
	Interests string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/mentors", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "register", registerFormData{
		BaseVM: viewdata.NewBaseVM(r, "Join the circle"),
		Role:   models.RoleMentee,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, "Invalid form data.", registerFormData{})
		return
	}

	form := registerFormData{
		FullName:  strings.TrimSpace(r.FormValue("full_name")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Role:      r.FormValue("role"),
		Interests: r.FormValue("interests"),
	}
	password := r.FormValue("password")

	switch {
	case form.FullName == "":
		h.renderError(w, r, "Please enter your name.", form)
		return
	case form.Email == "":
		h.renderError(w, r, "Please enter your email.", form)
		return
	case len(password) < 8:
		h.renderError(w, r, "Password must be at least 8 characters.", form)
		return
	}

	// Self-registration never grants admin.
	if !models.ValidRole(form.Role) || form.Role == models.RoleAdmin {
		h.renderError(w, r, "Please choose how you want to participate.", form)
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:     form.FullName,
		Email:        form.Email,
		AuthMethod:   models.AuthPassword,
		PasswordHash: &hash,
		Role:         form.Role,
		Interests:    splitInterests(form.Interests),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			h.renderError(w, r, "An account with this email already exists. Try signing in.", form)
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	if err := auth.SignIn(w, r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.Log.Error("session write failed", zap.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	http.Redirect(w, r, "/mentors", http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, msg string, form registerFormData) {
	form.BaseVM = viewdata.NewBaseVM(r, "Join the circle")
	form.Error = msg
	if form.Role == "" {
		form.Role = models.RoleMentee
	}
	templates.Render(w, r, "register", form)
}

// splitInterests turns comma-separated form input into a tag slice.
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
