// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/sistercircle/sistercircle/internal/app/store/forumposts"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/app/system/viewdata"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the moderation dashboard. Routes mount behind
// RequireRole("admin").
type Handler struct {
	Users *userstore.Store
	Posts *forumstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, posts *forumstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Posts: posts, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin – dashboard                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	roleCounts, err := h.Users.CountByRole(ctx)
	if err != nil {
		h.Log.Error("role counts failed", zap.Error(err))
		http.Error(w, "could not load dashboard", http.StatusInternalServerError)
		return
	}

	reported, err := h.Posts.CountReported(ctx)
	if err != nil {
		h.Log.Error("reported count failed", zap.Error(err))
		http.Error(w, "could not load dashboard", http.StatusInternalServerError)
		return
	}

	data := struct {
		viewdata.BaseVM
		RoleCounts map[string]int
		Reported   int64
	}{
		BaseVM:     viewdata.NewBaseVM(r, "Admin"),
		RoleCounts: roleCounts,
		Reported:   reported,
	}

	templates.Render(w, r, "admin_dashboard", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		http.Error(w, "could not load users", http.StatusInternalServerError)
		return
	}

	data := struct {
		viewdata.BaseVM
		Users []models.User
		Flash string
	}{
		BaseVM: viewdata.NewBaseVM(r, "Members"),
		Users:  users,
		Flash:  r.URL.Query().Get("flash"),
	}

	templates.Render(w, r, "admin_users", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{id}/suspend | /activate                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSuspend(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusSuspended, "Member suspended.")
}

func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.StatusActive, "Member reactivated.")
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status, flash string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetStatus(ctx, id, status); err != nil {
		h.Log.Error("status change failed",
			zap.String("user_id", id.Hex()), zap.String("status", status), zap.Error(err))
		http.Error(w, "could not update member", http.StatusInternalServerError)
		return
	}

	h.Log.Info("member status changed",
		zap.String("user_id", id.Hex()), zap.String("status", status))
	http.Redirect(w, r, "/admin/users?flash="+flash, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/moderation – reported posts queue                                |
*─────────────────────────────────────────────────────────────────────────────*/

type reportedPostVM struct {
	models.ForumPost
	BodyHTML    template.HTML
	When        time.Time
	ReportCount int
}

func (h *Handler) ServeModeration(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.ListReported(ctx)
	if err != nil {
		h.Log.Error("moderation queue failed", zap.Error(err))
		http.Error(w, "could not load the queue", http.StatusInternalServerError)
		return
	}

	vms := make([]reportedPostVM, 0, len(posts))
	for _, p := range posts {
		vms = append(vms, reportedPostVM{
			ForumPost:   p,
			BodyHTML:    template.HTML(p.Body),
			When:        time.UnixMilli(p.CreatedAt),
			ReportCount: len(p.Reports),
		})
	}

	data := struct {
		viewdata.BaseVM
		Posts []reportedPostVM
		Flash string
	}{
		BaseVM: viewdata.NewBaseVM(r, "Moderation"),
		Posts:  vms,
		Flash:  r.URL.Query().Get("flash"),
	}

	templates.Render(w, r, "admin_moderation", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/moderation/{id}/resolve                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.Resolve(ctx, id); err != nil {
		h.Log.Error("resolve failed", zap.String("post_id", id.Hex()), zap.Error(err))
		http.Error(w, "could not resolve the report", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/moderation?flash=Report+resolved.", http.StatusSeeOther)
}
