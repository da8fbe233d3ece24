// internal/app/features/forum/handler.go
package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sistercircle/sistercircle/internal/app/features/errors"
	"github.com/sistercircle/sistercircle/internal/app/store/forumposts"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/system/htmlsanitize"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/app/system/viewdata"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the community forum.
type Handler struct {
	Posts *forumstore.Store
	Log   *zap.Logger
}

func NewHandler(posts *forumstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Posts: posts, Log: logger}
}

// postVM wraps a post with display fields the template needs. BodyHTML is
// safe to render unescaped: bodies pass through bluemonday on the way in.
type postVM struct {
	models.ForumPost
	BodyHTML template.HTML
	When     time.Time
	Mine     bool
	Reported bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /forum – feed                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	me, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	myID, _ := primitive.ObjectIDFromHex(me.ID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.List(ctx)
	if err != nil {
		h.Log.Error("forum list failed", zap.Error(err))
		http.Error(w, "could not load the forum", http.StatusInternalServerError)
		return
	}

	vms := make([]postVM, 0, len(posts))
	for _, p := range posts {
		vms = append(vms, postVM{
			ForumPost: p,
			BodyHTML:  template.HTML(p.Body),
			When:      time.UnixMilli(p.CreatedAt),
			Mine:      p.AuthorID == myID,
			Reported:  hasReporter(p, myID),
		})
	}

	data := struct {
		viewdata.BaseVM
		Posts []postVM
		Flash string
	}{
		BaseVM: viewdata.NewBaseVM(r, "Community Forum"),
		Posts:  vms,
		Flash:  r.URL.Query().Get("flash"),
	}

	templates.Render(w, r, "forum", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /forum – new post                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	me, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	myID, err := primitive.ObjectIDFromHex(me.ID)
	if err != nil {
		http.Error(w, "bad session", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	body := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("body")))
	if body == "" {
		http.Redirect(w, r, "/forum", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Posts.Create(ctx, models.ForumPost{
		AuthorID:   myID,
		AuthorName: me.Name,
		Body:       body,
	}); err != nil {
		h.Log.Error("post create failed", zap.Error(err))
		http.Error(w, "could not publish your post", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/forum", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /forum/{id}/report                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	me, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	myID, err := primitive.ObjectIDFromHex(me.ID)
	if err != nil {
		http.Error(w, "bad session", http.StatusBadRequest)
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Posts.Report(ctx, postID, myID); err != nil {
		h.Log.Error("report failed", zap.String("post_id", postID.Hex()), zap.Error(err))
		http.Error(w, "could not report the post", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/forum?flash=Thanks%2C+our+moderators+will+take+a+look.", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /forum/events – live post feed (SSE)                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub, err := h.Posts.Subscribe(r.Context())
	if err != nil {
		// Change streams need a replica set; fall back to polling on the client.
		h.Log.Warn("forum subscription unavailable", zap.Error(err))
		http.Error(w, "live updates unavailable", http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case post, open := <-sub.C():
			if !open {
				return
			}
			payload, err := json.Marshal(post)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: post\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func hasReporter(p models.ForumPost, id primitive.ObjectID) bool {
	for _, rep := range p.Reports {
		if rep == id {
			return true
		}
	}
	return false
}
