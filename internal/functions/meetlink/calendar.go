// internal/functions/meetlink/calendar.go
package meetlinkfn

import (
	"context"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarAPI is the slice of the Google Calendar surface the functions
// use. Tests substitute a fake.
type CalendarAPI interface {
	InsertEvent(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error)
	GetCalendar(ctx context.Context, calendarID string) (*calendar.Calendar, error)
}

// GoogleCalendar adapts the real Calendar API.
type GoogleCalendar struct {
	svc *calendar.Service
}

// NewGoogleCalendar builds a Calendar client with the calendar scope.
// credentialsFile may be empty, in which case application default
// credentials are used.
func NewGoogleCalendar(ctx context.Context, credentialsFile string) (*GoogleCalendar, error) {
	opts := []option.ClientOption{option.WithScopes(calendar.CalendarScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleCalendar{svc: svc}, nil
}

// InsertEvent creates a calendar event. ConferenceDataVersion 1 is required
// for the API to honor the Meet-link create request on the event.
func (g *GoogleCalendar) InsertEvent(ctx context.Context, calendarID string, ev *calendar.Event) (*calendar.Event, error) {
	return g.svc.Events.Insert(calendarID, ev).ConferenceDataVersion(1).Context(ctx).Do()
}

// GetCalendar fetches calendar metadata, used by the diagnostic function.
func (g *GoogleCalendar) GetCalendar(ctx context.Context, calendarID string) (*calendar.Calendar, error) {
	return g.svc.Calendars.Get(calendarID).Context(ctx).Do()
}
