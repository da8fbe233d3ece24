package meetlinkfn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

type fakeCalendar struct {
	insertEvent *calendar.Event
	insertErr   error
	gotCalID    string
	gotEvent    *calendar.Event

	calInfo *calendar.Calendar
	calErr  error
}

func (f *fakeCalendar) InsertEvent(_ context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error) {
	f.gotCalID = calendarID
	f.gotEvent = ev
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return f.insertEvent, nil
}

func (f *fakeCalendar) GetCalendar(_ context.Context, _ string) (*calendar.Calendar, error) {
	if f.calErr != nil {
		return nil, f.calErr
	}
	return f.calInfo, nil
}

func newTestHandler(fake *fakeCalendar) *Handler {
	h := NewHandler(fake, "scheduler@example.com", "secret-token", zap.NewNop())
	h.now = func() time.Time { return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC) }
	return h
}

func postCreate(t *testing.T, h *Handler, token string, data any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/createGoogleMeet", bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.HandleCreateGoogleMeet(rec, req)
	return rec
}

func decodeFault(t *testing.T, rec *httptest.ResponseRecorder) (status, message string) {
	t.Helper()
	var env struct {
		Error struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode fault: %v", err)
	}
	return env.Error.Status, env.Error.Message
}

func TestCreateGoogleMeetSuccess(t *testing.T) {
	fake := &fakeCalendar{
		insertEvent: &calendar.Event{Id: "evt-1", HangoutLink: "https://meet.google.com/abc-defg-hij"},
	}
	h := newTestHandler(fake)

	rec := postCreate(t, h, "secret-token", map[string]string{
		"mentorEmail": "mentor@example.com",
		"menteeEmail": "mentee@example.com",
		"topic":       "Negotiating a raise",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}

	var env struct {
		Result struct {
			MeetLink string `json:"meetLink"`
			EventID  string `json:"eventId"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if env.Result.MeetLink != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("meetLink = %q", env.Result.MeetLink)
	}
	if env.Result.EventID != "evt-1" {
		t.Errorf("eventId = %q", env.Result.EventID)
	}

	ev := fake.gotEvent
	if ev == nil {
		t.Fatal("no event sent to calendar")
	}
	if ev.Summary != "Negotiating a raise" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if len(ev.Attendees) != 2 || ev.Attendees[0].Email != "mentor@example.com" || ev.Attendees[1].Email != "mentee@example.com" {
		t.Errorf("attendees = %+v", ev.Attendees)
	}
	if fake.gotCalID != "scheduler@example.com" {
		t.Errorf("calendar id = %q", fake.gotCalID)
	}

	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	if got := end.Sub(start); got != 30*time.Minute {
		t.Errorf("event window = %v, want 30m", got)
	}

	cr := ev.ConferenceData.CreateRequest
	if cr.ConferenceSolutionKey.Type != "hangoutsMeet" {
		t.Errorf("conference solution = %q", cr.ConferenceSolutionKey.Type)
	}
	if !strings.HasPrefix(cr.RequestId, "sistercircle-") {
		t.Errorf("request id = %q", cr.RequestId)
	}
}

func TestCreateGoogleMeetDefaultTopic(t *testing.T) {
	fake := &fakeCalendar{
		insertEvent: &calendar.Event{Id: "evt-2", HangoutLink: "https://meet.google.com/xyz"},
	}
	h := newTestHandler(fake)

	rec := postCreate(t, h, "secret-token", map[string]string{
		"mentorEmail": "mentor@example.com",
		"menteeEmail": "mentee@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fake.gotEvent.Summary != DefaultTopic {
		t.Errorf("summary = %q, want %q", fake.gotEvent.Summary, DefaultTopic)
	}
}

func TestCreateGoogleMeetRequiresAuth(t *testing.T) {
	h := newTestHandler(&fakeCalendar{})

	rec := postCreate(t, h, "", map[string]string{
		"mentorEmail": "mentor@example.com",
		"menteeEmail": "mentee@example.com",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if status, _ := decodeFault(t, rec); status != "UNAUTHENTICATED" {
		t.Errorf("status = %q", status)
	}
}

func TestCreateGoogleMeetMissingEmails(t *testing.T) {
	h := newTestHandler(&fakeCalendar{})

	rec := postCreate(t, h, "secret-token", map[string]string{
		"mentorEmail": "mentor@example.com",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if status, _ := decodeFault(t, rec); status != "INVALID_ARGUMENT" {
		t.Errorf("status = %q", status)
	}
}

func TestCreateGoogleMeetMissingLink(t *testing.T) {
	fake := &fakeCalendar{insertEvent: &calendar.Event{Id: "evt-3"}}
	h := newTestHandler(fake)

	rec := postCreate(t, h, "secret-token", map[string]string{
		"mentorEmail": "mentor@example.com",
		"menteeEmail": "mentee@example.com",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	status, msg := decodeFault(t, rec)
	if status != "INTERNAL" {
		t.Errorf("status = %q", status)
	}
	if msg != "Failed to generate Google Meet link." {
		t.Errorf("message = %q", msg)
	}
}

func TestCreateGoogleMeetUpstreamFaults(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantHTTP   int
		wantStatus string
	}{
		{"forbidden", &googleapi.Error{Code: 403, Message: "forbidden"}, 403, "PERMISSION_DENIED"},
		{"not found", &googleapi.Error{Code: 404, Message: "missing"}, 404, "NOT_FOUND"},
		{"rate limited", &googleapi.Error{Code: 429, Message: "slow down"}, 500, "INTERNAL"},
		{"transport", errors.New("connection reset"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(&fakeCalendar{insertErr: tc.err})
			rec := postCreate(t, h, "secret-token", map[string]string{
				"mentorEmail": "mentor@example.com",
				"menteeEmail": "mentee@example.com",
			})
			if rec.Code != tc.wantHTTP {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantHTTP)
			}
			if status, _ := decodeFault(t, rec); status != tc.wantStatus {
				t.Errorf("fault status = %q, want %q", status, tc.wantStatus)
			}
		})
	}
}

func TestTestGoogleCalendar(t *testing.T) {
	fake := &fakeCalendar{
		calInfo: &calendar.Calendar{Summary: "Scheduler", Description: "Session events"},
	}
	h := newTestHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/testGoogleCalendar", strings.NewReader(`{"data":{}}`))
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	h.HandleTestGoogleCalendar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var env struct {
		Result struct {
			Success         bool   `json:"success"`
			CalendarID      string `json:"calendarId"`
			CalendarSummary string `json:"calendarSummary"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Result.Success {
		t.Error("success = false")
	}
	if env.Result.CalendarID != "scheduler@example.com" {
		t.Errorf("calendarId = %q", env.Result.CalendarID)
	}
	if env.Result.CalendarSummary != "Scheduler" {
		t.Errorf("calendarSummary = %q", env.Result.CalendarSummary)
	}
}

func TestTestGoogleCalendarFailureIsInline(t *testing.T) {
	fake := &fakeCalendar{calErr: &googleapi.Error{Code: 403, Message: "nope"}}
	h := newTestHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/testGoogleCalendar", strings.NewReader(`{"data":{}}`))
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	h.HandleTestGoogleCalendar(rec, req)

	// Diagnostic failures come back 200 with success=false.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var env struct {
		Result struct {
			Success bool   `json:"success"`
			Code    string `json:"code"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Result.Success {
		t.Error("success = true, want false")
	}
	if env.Result.Code != "PERMISSION_DENIED" {
		t.Errorf("code = %q", env.Result.Code)
	}
}
