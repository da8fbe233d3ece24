// internal/domain/models/session.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session lifecycle statuses.
const (
	SessionPending   = "pending"
	SessionScheduled = "scheduled"
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// ValidSessionStatus reports whether status is one of the closed set.
func ValidSessionStatus(status string) bool {
	switch status {
	case SessionPending, SessionScheduled, SessionActive, SessionCompleted:
		return true
	}
	return false
}

// Session is one mentor↔mentee engagement. Participants always holds
// [mentorID, menteeID] so either side can find the session with a
// containment query. Optional fields are pointers: nil means the value was
// never set, which matters for the provisioning flow (a session without a
// meet link and without an error is still waiting on its first attempt).
type Session struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MentorID     primitive.ObjectID   `bson:"mentor_id" json:"mentor_id"`
	MentorName   string               `bson:"mentor_name" json:"mentor_name"`
	MenteeID     primitive.ObjectID   `bson:"mentee_id" json:"mentee_id"`
	MenteeName   string               `bson:"mentee_name" json:"mentee_name"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`

	Topic  string `bson:"topic" json:"topic"`
	Status string `bson:"status" json:"status"` // pending | scheduled | active | completed

	Time     *time.Time `bson:"time,omitempty" json:"time,omitempty"`
	MeetLink *string    `bson:"meet_link,omitempty" json:"meet_link,omitempty"`
	EventID  *string    `bson:"event_id,omitempty" json:"event_id,omitempty"`
	// Error annotates a session whose meet-link provisioning failed.
	Error *string `bson:"error,omitempty" json:"error,omitempty"`

	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	LastUpdated time.Time `bson:"last_updated" json:"last_updated"`
}

// HasParticipant reports whether id is the mentor or the mentee.
func (s *Session) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range s.Participants {
		if p == id {
			return true
		}
	}
	return false
}
