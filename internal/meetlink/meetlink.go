// Package meetlink defines the callable protocol of the video-link
// provisioning function service and the HTTP client the web app uses to
// invoke it. Requests and responses travel in a callable envelope:
//
//	POST {base}/createGoogleMeet   {"data": {...}}
//	200: {"result": {...}}
//	4xx/5xx: {"error": {"status": "PERMISSION_DENIED", "message": "..."}}
package meetlink

import "fmt"

// Code classifies a provisioning fault. The set is closed; anything the
// function cannot name maps to CodeInternal.
type Code string

const (
	CodeUnauthenticated  Code = "unauthenticated"
	CodeInvalidArgument  Code = "invalid-argument"
	CodePermissionDenied Code = "permission-denied"
	CodeNotFound         Code = "not-found"
	CodeInternal         Code = "internal"
)

// wire statuses, paired with Code values above.
const (
	statusUnauthenticated  = "UNAUTHENTICATED"
	statusInvalidArgument  = "INVALID_ARGUMENT"
	statusPermissionDenied = "PERMISSION_DENIED"
	statusNotFound         = "NOT_FOUND"
	statusInternal         = "INTERNAL"
)

// Status returns the wire form of the code.
func (c Code) Status() string {
	switch c {
	case CodeUnauthenticated:
		return statusUnauthenticated
	case CodeInvalidArgument:
		return statusInvalidArgument
	case CodePermissionDenied:
		return statusPermissionDenied
	case CodeNotFound:
		return statusNotFound
	default:
		return statusInternal
	}
}

// HTTPStatus returns the HTTP status the function serves for the code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return 401
	case CodeInvalidArgument:
		return 400
	case CodePermissionDenied:
		return 403
	case CodeNotFound:
		return 404
	default:
		return 500
	}
}

// CodeFromStatus maps a wire status back to a Code.
func CodeFromStatus(status string) Code {
	switch status {
	case statusUnauthenticated:
		return CodeUnauthenticated
	case statusInvalidArgument:
		return CodeInvalidArgument
	case statusPermissionDenied:
		return CodePermissionDenied
	case statusNotFound:
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// Error is a structured provisioning fault.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("meetlink: %s: %s", e.Code, e.Message)
}

// CreateMeetRequest asks for one calendar event with a generated
// video-conference link.
type CreateMeetRequest struct {
	MentorEmail string `json:"mentorEmail"`
	MenteeEmail string `json:"menteeEmail"`
	Topic       string `json:"topic,omitempty"`
}

// CreateMeetResult is the success payload.
type CreateMeetResult struct {
	MeetLink string `json:"meetLink"`
	EventID  string `json:"eventId"`
}

// TestCalendarResult is the diagnostic function's success payload.
type TestCalendarResult struct {
	Success             bool   `json:"success"`
	Message             string `json:"message,omitempty"`
	CalendarID          string `json:"calendarId,omitempty"`
	CalendarSummary     string `json:"calendarSummary,omitempty"`
	CalendarDescription string `json:"calendarDescription,omitempty"`
	Error               string `json:"error,omitempty"`
	ErrCode             string `json:"code,omitempty"`
}

// Envelope types shared by client and server.

type RequestEnvelope struct {
	Data any `json:"data"`
}

type ResultEnvelope struct {
	Result any `json:"result"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
