// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types.
const (
	MessageText  = "text"
	MessageAudio = "audio"
)

// ValidMessageType reports whether t is "text" or "audio".
func ValidMessageType(t string) bool {
	return t == MessageText || t == MessageAudio
}

// Message is one chat entry inside a session. Messages are immutable once
// created and are listed ascending by CreatedAt. Audio messages carry the
// blob-storage path of the recording instead of a text body.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  primitive.ObjectID `bson:"session_id" json:"session_id"`
	Type       string             `bson:"type" json:"type"` // text | audio
	Body       string             `bson:"body,omitempty" json:"body,omitempty"`
	AudioPath  string             `bson:"audio_path,omitempty" json:"audio_path,omitempty"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	SenderName string             `bson:"sender_name" json:"sender_name"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
