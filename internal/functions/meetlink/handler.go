// internal/functions/meetlink/handler.go
package meetlinkfn

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sistercircle/sistercircle/internal/meetlink"
	"go.uber.org/zap"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// DefaultTopic is the event summary when the caller sends none.
const DefaultTopic = "SisterCircle Mentorship Session"

// eventDuration is the fixed window for every session event.
const eventDuration = 30 * time.Minute

// Handler serves the two callable functions.
type Handler struct {
	Calendar   CalendarAPI
	CalendarID string
	AuthToken  string // shared bearer token; empty disables the check (dev only)
	Log        *zap.Logger

	// now is stubbed in tests.
	now func() time.Time
}

// NewHandler constructs a Handler bound to a calendar backend.
func NewHandler(api CalendarAPI, calendarID, authToken string, logger *zap.Logger) *Handler {
	return &Handler{
		Calendar:   api,
		CalendarID: calendarID,
		AuthToken:  authToken,
		Log:        logger,
		now:        time.Now,
	}
}

// HandleCreateGoogleMeet implements POST /createGoogleMeet.
//
// It computes a 30-minute event window starting now, creates a calendar
// event with Meet-link auto-generation and both participants as attendees,
// and returns the link and event ID. An event that comes back without a
// link is a hard failure: a session nobody can join has no value.
func (h *Handler) HandleCreateGoogleMeet(w http.ResponseWriter, r *http.Request) {
	if !h.authenticated(r) {
		h.fault(w, meetlink.CodeUnauthenticated, "Authentication required.")
		return
	}

	var req meetlink.CreateMeetRequest
	if err := decodeData(r, &req); err != nil {
		h.fault(w, meetlink.CodeInvalidArgument, "Malformed request payload.")
		return
	}
	if req.MentorEmail == "" || req.MenteeEmail == "" {
		h.fault(w, meetlink.CodeInvalidArgument, "Mentor and mentee emails are required.")
		return
	}

	topic := req.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	start := h.now()
	end := start.Add(eventDuration)

	h.Log.Info("creating calendar event",
		zap.String("mentor_email", req.MentorEmail),
		zap.String("mentee_email", req.MenteeEmail),
		zap.Time("start", start),
		zap.Time("end", end))

	ev := &calendar.Event{
		Summary:     topic,
		Description: "A micro-mentorship session on SisterCircle.",
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				// Timestamped per invocation so each call gets its own
				// conference; not globally idempotent.
				RequestId: fmt.Sprintf("sistercircle-%d", start.UnixMilli()),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
		Attendees: []*calendar.EventAttendee{
			{Email: req.MentorEmail},
			{Email: req.MenteeEmail},
		},
	}

	created, err := h.Calendar.InsertEvent(r.Context(), h.CalendarID, ev)
	if err != nil {
		h.Log.Error("calendar event creation failed", zap.Error(err))
		code, msg := classify(err)
		h.fault(w, code, msg)
		return
	}

	if created.HangoutLink == "" {
		h.Log.Error("no meet link in created event", zap.String("event_id", created.Id))
		h.fault(w, meetlink.CodeInternal, "Failed to generate Google Meet link.")
		return
	}

	h.result(w, meetlink.CreateMeetResult{
		MeetLink: created.HangoutLink,
		EventID:  created.Id,
	})
}

// HandleTestGoogleCalendar implements POST /testGoogleCalendar. It verifies
// calendar reachability and reports the upstream error inline rather than
// as a fault, so callers always get a 200 with a success flag.
func (h *Handler) HandleTestGoogleCalendar(w http.ResponseWriter, r *http.Request) {
	if !h.authenticated(r) {
		h.fault(w, meetlink.CodeUnauthenticated, "Authentication required.")
		return
	}

	info, err := h.Calendar.GetCalendar(r.Context(), h.CalendarID)
	if err != nil {
		h.Log.Error("calendar access check failed", zap.Error(err))
		code, _ := classify(err)
		h.result(w, meetlink.TestCalendarResult{
			Success: false,
			Message: "Google Calendar test failed",
			Error:   err.Error(),
			ErrCode: code.Status(),
		})
		return
	}

	h.result(w, meetlink.TestCalendarResult{
		Success:             true,
		Message:             "Google Calendar access is working",
		CalendarID:          h.CalendarID,
		CalendarSummary:     info.Summary,
		CalendarDescription: info.Description,
	})
}

func (h *Handler) authenticated(r *http.Request) bool {
	if h.AuthToken == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+h.AuthToken
}

// classify maps an upstream calendar error to a fault code and message.
func classify(err error) (meetlink.Code, string) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusForbidden:
			return meetlink.CodePermissionDenied, "Calendar access denied. Please check calendar permissions."
		case http.StatusNotFound:
			return meetlink.CodeNotFound, "Calendar not found. Please check the calendar ID."
		}
	}
	return meetlink.CodeInternal, "Failed to create video call: " + err.Error()
}

func decodeData(r *http.Request, data any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, data)
}

func (h *Handler) result(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(meetlink.ResultEnvelope{Result: payload})
}

func (h *Handler) fault(w http.ResponseWriter, code meetlink.Code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(meetlink.ErrorEnvelope{
		Error: meetlink.ErrorBody{Status: code.Status(), Message: msg},
	})
}
