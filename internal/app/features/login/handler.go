// internal/app/features/login/handler.go
package login

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
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users         *userstore.Store
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(users *userstore.Store, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{Users: users, GoogleEnabled: googleEnabled, Log: logger}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/mentors", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in"),
		ReturnURL:     r.URL.Query().Get("return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, "Invalid form data.", "")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := r.FormValue("return")

	if email == "" || password == "" {
		h.renderError(w, r, "Please enter your email and password.", email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("login lookup failed", zap.Error(err))
		}
		h.renderError(w, r, "Email or password is incorrect.", email)
		return
	}

	// Federated accounts have no password to check.
	if u.PasswordHash == nil || !authutil.CheckPassword(password, *u.PasswordHash) {
		h.renderError(w, r, "Email or password is incorrect.", email)
		return
	}

	if u.Status == models.StatusSuspended {
		h.renderError(w, r, "This account has been suspended. Contact support if you believe this is a mistake.", email)
		return
	}

	if err := auth.SignIn(w, r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}); err != nil {
		h.Log.Error("session write failed", zap.Error(err))
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	if ret == "" || !strings.HasPrefix(ret, "/") {
		ret = "/mentors"
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, msg, email string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in"),
		Error:         msg,
		Email:         email,
		GoogleEnabled: h.GoogleEnabled,
	})
}
