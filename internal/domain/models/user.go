// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Mentors offer sessions, mentees request them, "both" does
// either. Admins moderate the community and manage accounts.
const (
	RoleMentor = "mentor"
	RoleMentee = "mentee"
	RoleBoth   = "both"
	RoleAdmin  = "admin"
)

// Account statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Auth methods.
const (
	AuthPassword = "password"
	AuthGoogle   = "google"
)

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleMentor, RoleMentee, RoleBoth, RoleAdmin:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of the closed status set.
func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusSuspended
}

// IsMentor reports whether the role can be matched with mentees.
func IsMentor(role string) bool {
	return role == RoleMentor || role == RoleBoth
}

// User represents one community member. A record is created on first
// successful authentication (registration or first Google sign-in) and is
// never hard-deleted; suspension sets Status instead.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	AuthMethod string             `bson:"auth_method" json:"auth_method"` // password | google
	// PasswordHash is absent for federated accounts.
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	Role         string   `bson:"role" json:"role"`     // mentor | mentee | both | admin
	Status       string   `bson:"status" json:"status"` // active | suspended
	Bio          string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Interests    []string `bson:"interests,omitempty" json:"interests,omitempty"`
	Availability string   `bson:"availability,omitempty" json:"availability,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SharesInterest reports whether u and other have at least one interest tag
// in common. Used for suggested mentor matches.
func (u *User) SharesInterest(other *User) bool {
	for _, a := range u.Interests {
		for _, b := range other.Interests {
			if a == b {
				return true
			}
		}
	}
	return false
}
