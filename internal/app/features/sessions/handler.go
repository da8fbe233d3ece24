// internal/app/features/sessions/handler.go
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/sistercircle/sistercircle/internal/app/features/errors"
	"github.com/sistercircle/sistercircle/internal/app/storage"
	"github.com/sistercircle/sistercircle/internal/app/store/sessions"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/system/htmlsanitize"
	"github.com/sistercircle/sistercircle/internal/app/system/timeouts"
	"github.com/sistercircle/sistercircle/internal/app/system/viewdata"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxVoiceUpload caps a single voice recording at 10 MB.
const maxVoiceUpload = 10 << 20

// Handler serves the member's session list and the in-session chat.
type Handler struct {
	Sessions *sessionstore.Store
	Voice    storage.ObjectStorage
	Log      *zap.Logger
}

func NewHandler(sessions *sessionstore.Store, voice storage.ObjectStorage, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Voice: voice, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /sessions – my sessions                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	me, myID, ok := currentUserID(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Sessions.ListForUser(ctx, myID)
	if err != nil {
		h.Log.Error("session list failed", zap.String("user_id", me.ID), zap.Error(err))
		http.Error(w, "could not load sessions", http.StatusInternalServerError)
		return
	}

	data := struct {
		viewdata.BaseVM
		Sessions []models.Session
		MyID     string
		Flash    string
	}{
		BaseVM:   viewdata.NewBaseVM(r, "My Sessions"),
		Sessions: list,
		MyID:     me.ID,
		Flash:    r.URL.Query().Get("flash"),
	}

	templates.Render(w, r, "sessions", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /sessions/{id}/reschedule                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleReschedule(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	// datetime-local input, interpreted as server-local time.
	t, err := time.ParseInLocation("2006-01-02T15:04", r.FormValue("time"), time.Local)
	if err != nil {
		http.Error(w, "invalid time", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Sessions.Reschedule(ctx, sess.ID, t); err != nil {
		h.Log.Error("reschedule failed", zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		http.Error(w, "could not reschedule", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/sessions", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /sessions/{id}/complete                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleComplete closes out a session. Either participant can mark it.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Sessions.SetStatus(ctx, sess.ID, models.SessionCompleted); err != nil {
		h.Log.Error("complete failed", zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		http.Error(w, "could not update the session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/sessions?flash=Session+marked+as+completed.", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /sessions/{id} – chat view                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	sess, me, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msgs, err := h.Sessions.ListMessages(ctx, sess.ID)
	if err != nil {
		h.Log.Error("message list failed", zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		http.Error(w, "could not load messages", http.StatusInternalServerError)
		return
	}

	data := struct {
		viewdata.BaseVM
		Session  *models.Session
		Messages []models.Message
		MyID     string
	}{
		BaseVM:   viewdata.NewBaseVM(r, "Session with "+otherPartyName(sess, me.ID)),
		Session:  sess,
		Messages: msgs,
		MyID:     me.ID,
	}

	templates.Render(w, r, "session_chat", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /sessions/{id}/messages – text message                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	sess, me, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	body := htmlsanitize.Strip(strings.TrimSpace(r.FormValue("body")))
	if body == "" {
		http.Redirect(w, r, "/sessions/"+sess.ID.Hex(), http.StatusSeeOther)
		return
	}

	myID, _ := primitive.ObjectIDFromHex(me.ID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Sessions.AddMessage(ctx, models.Message{
		SessionID:  sess.ID,
		Type:       models.MessageText,
		Body:       body,
		SenderID:   myID,
		SenderName: me.Name,
	}); err != nil {
		h.Log.Error("message write failed", zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		http.Error(w, "could not send message", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/sessions/"+sess.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /sessions/{id}/voice – voice message upload                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleVoiceUpload(w http.ResponseWriter, r *http.Request) {
	sess, me, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxVoiceUpload)
	if err := r.ParseMultipartForm(maxVoiceUpload); err != nil {
		http.Error(w, "recording too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(path.Ext(header.Filename), ".")
	if ext == "" {
		ext = "webm"
	}

	myID, _ := primitive.ObjectIDFromHex(me.ID)
	key := storage.VoiceMessagePath(sess.ID, time.Now().UTC(), myID, ext)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Voice.Put(ctx, key, file, header.Size, contentTypeFor(ext)); err != nil {
		h.Log.Error("voice upload failed", zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		http.Error(w, "could not store recording", http.StatusInternalServerError)
		return
	}

	if _, err := h.Sessions.AddMessage(ctx, models.Message{
		SessionID:  sess.ID,
		Type:       models.MessageAudio,
		AudioPath:  key,
		SenderID:   myID,
		SenderName: me.Name,
	}); err != nil {
		h.Log.Error("voice message record failed", zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		// Best effort: don't leave an orphaned blob.
		if derr := h.Voice.Delete(ctx, key); derr != nil {
			h.Log.Warn("orphaned voice blob", zap.String("key", key), zap.Error(derr))
		}
		http.Error(w, "could not send recording", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/sessions/"+sess.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /sessions/{id}/audio/{msgID} – voice playback                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAudio(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	msgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "msgID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	msgs, err := h.Sessions.ListMessages(ctx, sess.ID)
	if err != nil {
		http.Error(w, "could not load message", http.StatusInternalServerError)
		return
	}

	var audioPath string
	for _, m := range msgs {
		if m.ID == msgID && m.Type == models.MessageAudio {
			audioPath = m.AudioPath
			break
		}
	}
	if audioPath == "" {
		http.NotFound(w, r)
		return
	}

	rc, err := h.Voice.Get(ctx, audioPath)
	if err != nil {
		h.Log.Error("voice fetch failed", zap.String("key", audioPath), zap.Error(err))
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentTypeFor(strings.TrimPrefix(path.Ext(audioPath), ".")))
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Warn("voice stream interrupted", zap.Error(err))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /sessions/{id}/events – live message feed (SSE)                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub, err := h.Sessions.SubscribeMessages(r.Context(), sess.ID)
	if err != nil {
		// Change streams need a replica set; fall back to polling on the client.
		h.Log.Warn("message subscription unavailable", zap.Error(err))
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
		case msg, open := <-sub.C():
			if !open {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
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

// loadForParticipant resolves the session in the URL and enforces that the
// current user is one of its participants (admins may view too). On failure
// it writes the response itself and returns ok=false.
func (h *Handler) loadForParticipant(w http.ResponseWriter, r *http.Request) (*models.Session, *auth.SessionUser, bool) {
	me, myID, ok := currentUserID(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return nil, nil, false
	}

	sessID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil, nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.Sessions.GetByID(ctx, sessID)
	if err != nil {
		http.NotFound(w, r)
		return nil, nil, false
	}

	if !sess.HasParticipant(myID) && me.Role != models.RoleAdmin {
		uierrors.RenderForbidden(w, r, "This session belongs to someone else.", "/sessions")
		return nil, nil, false
	}

	return sess, me, true
}

func otherPartyName(sess *models.Session, myID string) string {
	if sess.MentorID.Hex() == myID {
		return sess.MenteeName
	}
	return sess.MentorName
}

func contentTypeFor(ext string) string {
	switch ext {
	case "ogg":
		return "audio/ogg"
	case "mp3":
		return "audio/mpeg"
	case "m4a":
		return "audio/mp4"
	case "wav":
		return "audio/wav"
	default:
		return "audio/webm"
	}
}
