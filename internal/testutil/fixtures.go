package testutil

import (
	"testing"

	"github.com/sistercircle/sistercircle/internal/app/store/sessions"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateUser inserts a user through the store so normalization and index
// behavior match production writes.
func CreateUser(t *testing.T, db *mongo.Database, u models.User) models.User {
	t.Helper()
	if u.Role == "" {
		u.Role = models.RoleMentee
	}
	created, err := userstore.New(db).Create(Context(t), u)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return created
}

// CreateMentor inserts an active mentor with the given name and interests.
func CreateMentor(t *testing.T, db *mongo.Database, name, email string, interests ...string) models.User {
	t.Helper()
	return CreateUser(t, db, models.User{
		FullName:   name,
		Email:      email,
		AuthMethod: models.AuthPassword,
		Role:       models.RoleMentor,
		Interests:  interests,
	})
}

// CreateMentee inserts an active mentee.
func CreateMentee(t *testing.T, db *mongo.Database, name, email string, interests ...string) models.User {
	t.Helper()
	return CreateUser(t, db, models.User{
		FullName:   name,
		Email:      email,
		AuthMethod: models.AuthPassword,
		Role:       models.RoleMentee,
		Interests:  interests,
	})
}

// CreateSession inserts a session between mentor and mentee.
func CreateSession(t *testing.T, db *mongo.Database, mentor, mentee models.User, topic string) models.Session {
	t.Helper()
	sess, err := sessionstore.New(db).Create(Context(t), models.Session{
		MentorID:   mentor.ID,
		MentorName: mentor.FullName,
		MenteeID:   mentee.ID,
		MenteeName: mentee.FullName,
		Topic:      topic,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess
}
