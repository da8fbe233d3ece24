// internal/app/features/mentors/handler.go
package mentors

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sistercircle/sistercircle/internal/app/features/errors"
	"github.com/sistercircle/sistercircle/internal/app/store/sessions"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/app/system/viewdata"
	"github.com/sistercircle/sistercircle/internal/app/workflow/sessionrequest"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the mentor directory and the session request action.
type Handler struct {
	Users    *userstore.Store
	Sessions *sessionstore.Store
	Requests *sessionrequest.Workflow
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, sessions *sessionstore.Store, requests *sessionrequest.Workflow, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, Requests: requests, Log: logger}
}

// mentorCard pairs a mentor with how many session records already exist
// between them and the current user. Failed provisioning attempts leave
// more than one record per request, so the count can exceed the number of
// requests made.
type mentorCard struct {
	models.User
	SessionCount int64
}

type directoryData struct {
	viewdata.BaseVM
	Mentors   []mentorCard
	Suggested []mentorCard
	Query     string
	Interest  string
	Interests []string
	Flash     string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /mentors – directory with search & suggested matches                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	me, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	interest := strings.TrimSpace(r.URL.Query().Get("interest"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	mentors, err := h.Users.SearchMentors(ctx, q, interest)
	if err != nil {
		h.Log.Error("mentor search failed", zap.Error(err))
		http.Error(w, "could not load mentors", http.StatusInternalServerError)
		return
	}

	myID, _ := primitive.ObjectIDFromHex(me.ID)
	mentors = excludeUser(mentors, myID)

	var suggested []models.User
	if q == "" && interest == "" {
		suggested = h.suggestMatches(ctx, myID, mentors)
	}

	templates.Render(w, r, "mentors", directoryData{
		BaseVM:    viewdata.NewBaseVM(r, "Find a mentor"),
		Mentors:   h.withSessionCounts(ctx, myID, mentors),
		Suggested: h.withSessionCounts(ctx, myID, suggested),
		Query:     q,
		Interest:  interest,
		Interests: collectInterests(mentors),
		Flash:     r.URL.Query().Get("flash"),
	})
}

// suggestMatches returns mentors sharing at least one interest tag with the
// current user, in directory order.
func (h *Handler) suggestMatches(ctx context.Context, myID primitive.ObjectID, mentors []models.User) []models.User {
	me, err := h.Users.GetByID(ctx, myID)
	if err != nil || len(me.Interests) == 0 {
		return nil
	}

	var matches []models.User
	for i := range mentors {
		if me.SharesInterest(&mentors[i]) {
			matches = append(matches, mentors[i])
		}
	}
	return matches
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /mentors/{id}/request – ask for a session                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRequestSession(w http.ResponseWriter, r *http.Request) {
	me, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	mentorID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	myID, err := primitive.ObjectIDFromHex(me.ID)
	if err != nil || myID == mentorID {
		uierrors.RenderForbidden(w, r, "You can't request a session with yourself.", "/mentors")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	topic := strings.TrimSpace(r.FormValue("topic"))

	// The provisioning call inside the workflow has no deadline of its own,
	// so the page request rides on the server's write timeout.
	ctx := r.Context()

	mentor, err := h.Users.GetByID(ctx, mentorID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !models.IsMentor(mentor.Role) || mentor.Status != models.StatusActive {
		uierrors.RenderForbidden(w, r, "This member is not accepting sessions.", "/mentors")
		return
	}

	mentee, err := h.Users.GetByID(ctx, myID)
	if err != nil {
		h.Log.Error("mentee lookup failed", zap.Error(err))
		http.Error(w, "could not load your account", http.StatusInternalServerError)
		return
	}

	res, err := h.Requests.Request(ctx, mentor, mentee, topic)
	if err != nil {
		if errors.Is(err, sessionrequest.ErrIncompleteContactInfo) {
			uierrors.RenderForbidden(w, r, "Both of you need an email on file before a session can be scheduled.", "/mentors")
			return
		}
		h.Log.Error("session request failed",
			zap.String("mentor_id", mentorID.Hex()), zap.Error(err))
		http.Error(w, "could not create the session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/sessions?flash="+url.QueryEscape(res.Message), http.StatusSeeOther)
}

// helpers

// withSessionCounts annotates each mentor with the number of session
// records the pair already holds.
func (h *Handler) withSessionCounts(ctx context.Context, myID primitive.ObjectID, mentors []models.User) []mentorCard {
	cards := make([]mentorCard, 0, len(mentors))
	for _, m := range mentors {
		n, err := h.Sessions.CountForParticipants(ctx, m.ID, myID)
		if err != nil {
			h.Log.Warn("session count failed",
				zap.String("mentor_id", m.ID.Hex()), zap.Error(err))
		}
		cards = append(cards, mentorCard{User: m, SessionCount: n})
	}
	return cards
}

func excludeUser(users []models.User, id primitive.ObjectID) []models.User {
	out := users[:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// collectInterests gathers the distinct interest tags present in the result
// set, for the filter dropdown.
func collectInterests(users []models.User) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, u := range users {
		for _, tag := range u.Interests {
			if _, dup := seen[tag]; !dup {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
