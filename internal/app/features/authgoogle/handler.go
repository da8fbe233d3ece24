// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/securecookie"
	uierrors "github.com/sistercircle/sistercircle/internal/app/features/errors"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookie = "sistercircle-oauth-state"
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Handler handles Google OAuth sign-in. An account is created on first
// federated login; returning users are matched by email.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger

	oauthCfg *oauth2.Config
}

func NewHandler(users *userstore.Store, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Users: users,
		Log:   logger,
		oauthCfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled reports whether OAuth credentials are configured.
func (h *Handler) Enabled() bool {
	return h.oauthCfg.ClientID != "" && h.oauthCfg.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google – start the OAuth dance                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state, err := randomState()
	if err != nil {
		h.Log.Error("state generation failed", zap.Error(err))
		http.Error(w, "sign-in unavailable", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauthCfg.AuthCodeURL(state), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.Log.Warn("oauth state mismatch")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	// One-shot state.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, err := h.oauthCfg.Exchange(ctx, code)
	if err != nil {
		h.Log.Error("oauth exchange failed", zap.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("userinfo fetch failed", zap.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if info.Email == "" {
		h.Log.Warn("google account without email")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	u, err := h.Users.GetByEmail(ctx, info.Email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		name := info.Name
		if name == "" {
			name = info.Email
		}
		created, cerr := h.Users.Create(ctx, models.User{
			FullName:   name,
			Email:      info.Email,
			AuthMethod: models.AuthGoogle,
			Role:       models.RoleMentee,
		})
		if cerr != nil {
			h.Log.Error("federated user create failed", zap.Error(cerr))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		u = &created
		h.Log.Info("user registered via google", zap.String("user_id", u.ID.Hex()))
	case err != nil:
		h.Log.Error("user lookup failed", zap.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if u.Status == models.StatusSuspended {
		uierrors.RenderForbidden(w, r, "This account has been suspended.", "/")
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

	http.Redirect(w, r, "/mentors", http.StatusSeeOther)
}

type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	resp, err := h.oauthCfg.Client(ctx, token).Get(userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func randomState() (string, error) {
	b := securecookie.GenerateRandomKey(32)
	if b == nil {
		return "", errors.New("random source unavailable")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
