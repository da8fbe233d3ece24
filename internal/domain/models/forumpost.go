// internal/domain/models/forumpost.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ForumPost is one community discussion post. Posts are never deleted;
// moderation clears the report set instead. CreatedAt is unix milliseconds,
// which is what post ordering and display use.
type ForumPost struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  int64              `bson:"created_at" json:"created_at"` // unix millis

	// Reports holds the distinct set of users who flagged the post.
	// Writes use $addToSet, so a user reporting twice counts once.
	Reports []primitive.ObjectID `bson:"reports" json:"reports"`
}

// Reported reports whether the post is in the moderation queue.
func (p *ForumPost) Reported() bool {
	return len(p.Reports) > 0
}
