// Package sessionrequest runs the mentorship session request flow: record
// the session, provision a video link for it, and attach the link to the
// record. The flow degrades rather than aborts: a session whose link could
// not be provisioned is still a session, annotated so it can be retried.
package sessionrequest

import (
	"context"
	"errors"

	"github.com/sistercircle/sistercircle/internal/domain/models"
	"github.com/sistercircle/sistercircle/internal/meetlink"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrIncompleteContactInfo is returned before any write when either
// participant has no email on file; the provisioning function cannot invite
// an attendee without one.
var ErrIncompleteContactInfo = errors.New("both participants need an email address on file")

// provisionFailedNote is the annotation stored on the fallback record.
const provisionFailedNote = "Google Meet creation failed"

// SessionStore is the slice of the session store the workflow writes to.
type SessionStore interface {
	Create(ctx context.Context, sess models.Session) (models.Session, error)
	SetMeetLink(ctx context.Context, id primitive.ObjectID, link, eventID string) error
}

// Provisioner creates a video link for a session.
type Provisioner interface {
	CreateMeet(ctx context.Context, req meetlink.CreateMeetRequest) (*meetlink.CreateMeetResult, error)
}

// Outcome classifies how the flow ended.
type Outcome int

const (
	// LinkReady: session recorded and a meet link is attached.
	LinkReady Outcome = iota
	// LinkPending: session recorded but the link is not attached yet;
	// a later retry has to fill it in.
	LinkPending
)

// Result reports what the flow did. Message is user-facing flash text.
type Result struct {
	Outcome Outcome
	Session models.Session
	Message string
}

// Workflow wires the stores and the provisioning client together.
type Workflow struct {
	Sessions SessionStore
	Meet     Provisioner
	Log      *zap.Logger
}

func New(sessions SessionStore, meet Provisioner, logger *zap.Logger) *Workflow {
	return &Workflow{Sessions: sessions, Meet: meet, Log: logger}
}

// Request runs the flow for mentee requesting a session with mentor.
//
// Sequence: create a pending session record, call the provisioning
// function, patch the returned link onto the record. When provisioning
// fails, or succeeds without a usable link, a second session record is
// written carrying an error annotation so the retry queue can find it; the
// original pending record is left as-is. A failure patching the link onto
// the record is only logged: the link exists, it just was not attached, and
// writing a fallback record for that would misreport the fault.
func (w *Workflow) Request(ctx context.Context, mentor, mentee *models.User, topic string) (*Result, error) {
	if mentor.Email == "" || mentee.Email == "" {
		return nil, ErrIncompleteContactInfo
	}

	if topic == "" {
		topic = "Mentorship with " + mentor.FullName
	}

	sess, err := w.Sessions.Create(ctx, models.Session{
		MentorID:   mentor.ID,
		MentorName: mentor.FullName,
		MenteeID:   mentee.ID,
		MenteeName: mentee.FullName,
		Topic:      topic,
		Status:     models.SessionPending,
	})
	if err != nil {
		return nil, err
	}

	w.Log.Info("session requested",
		zap.String("session_id", sess.ID.Hex()),
		zap.String("mentor_id", mentor.ID.Hex()),
		zap.String("mentee_id", mentee.ID.Hex()))

	res, err := w.Meet.CreateMeet(ctx, meetlink.CreateMeetRequest{
		MentorEmail: mentor.Email,
		MenteeEmail: mentee.Email,
		Topic:       topic,
	})
	if err != nil || res.MeetLink == "" {
		if err != nil {
			w.Log.Error("meet link provisioning failed",
				zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		} else {
			w.Log.Error("meet link provisioning returned no link",
				zap.String("session_id", sess.ID.Hex()))
		}
		return w.recordFailure(ctx, mentor, mentee, topic)
	}

	if err := w.Sessions.SetMeetLink(ctx, sess.ID, res.MeetLink, res.EventID); err != nil {
		w.Log.Error("failed to attach meet link",
			zap.String("session_id", sess.ID.Hex()), zap.Error(err))
		return &Result{
			Outcome: LinkPending,
			Session: sess,
			Message: "Session request sent to " + mentor.FullName + "! (Meet link creation failed - will be retried)",
		}, nil
	}

	sess.MeetLink = &res.MeetLink
	sess.EventID = &res.EventID
	return &Result{
		Outcome: LinkReady,
		Session: sess,
		Message: "Session request sent to " + mentor.FullName + "! Meet link created successfully.",
	}, nil
}

// recordFailure writes the annotated fallback record. The pending record
// from step one stays behind, so a failed provisioning attempt leaves two
// session documents for the pair.
func (w *Workflow) recordFailure(ctx context.Context, mentor, mentee *models.User, topic string) (*Result, error) {
	note := provisionFailedNote
	fallback, err := w.Sessions.Create(ctx, models.Session{
		MentorID:   mentor.ID,
		MentorName: mentor.FullName,
		MenteeID:   mentee.ID,
		MenteeName: mentee.FullName,
		Topic:      topic,
		Status:     models.SessionPending,
		Error:      &note,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Outcome: LinkPending,
		Session: fallback,
		Message: "Session request sent to " + mentor.FullName + "! (Meet link creation failed - will be retried)",
	}, nil
}
