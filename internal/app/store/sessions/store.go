package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/sistercircle/sistercircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c        *mongo.Collection
	messages *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("sessions"),
		messages: db.Collection("session_messages"),
	}
}

var (
	errBadStatus      = errors.New(`status must be "pending"|"scheduled"|"active"|"completed"`)
	errNoParticipants = errors.New("session requires a mentor and a mentee")
)

// Create inserts a new session record. Participants is always
// [mentorID, menteeID] so either side can find the record with a
// containment query.
func (s *Store) Create(ctx context.Context, sess models.Session) (models.Session, error) {
	if sess.MentorID.IsZero() || sess.MenteeID.IsZero() {
		return models.Session{}, errNoParticipants
	}
	if sess.Status == "" {
		sess.Status = models.SessionPending
	}
	if !models.ValidSessionStatus(sess.Status) {
		return models.Session{}, errBadStatus
	}

	sess.ID = primitive.NewObjectID()
	sess.Participants = []primitive.ObjectID{sess.MentorID, sess.MenteeID}

	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.LastUpdated = now

	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// GetByID loads a session by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	var sess models.Session
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListForUser returns every session the user participates in, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Session, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.Session
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountForParticipants returns how many session records exist for the exact
// mentor/mentee pair. The mentor directory shows this per card; the count
// includes duplicated records left behind by failed provisioning attempts.
func (s *Store) CountForParticipants(ctx context.Context, mentorID, menteeID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"participants": bson.M{"$all": []primitive.ObjectID{mentorID, menteeID}}})
}

// SetMeetLink patches the meet link and calendar event ID onto an existing
// session. Field-level $set; the rest of the record is untouched.
func (s *Store) SetMeetLink(ctx context.Context, id primitive.ObjectID, link, eventID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"meet_link":    link,
		"event_id":     eventID,
		"last_updated": time.Now().UTC(),
	}})
	return err
}

// Reschedule overwrites the session time and forces status to "scheduled".
// Deliberately no validation of the submitted time: past timestamps and
// overlapping sessions are accepted, and concurrent reschedules are
// last-write-wins.
func (s *Store) Reschedule(ctx context.Context, id primitive.ObjectID, t time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"time":         t,
		"status":       models.SessionScheduled,
		"last_updated": time.Now().UTC(),
	}})
	return err
}

// SetStatus moves the session to another lifecycle status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidSessionStatus(status) {
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":       status,
		"last_updated": time.Now().UTC(),
	}})
	return err
}
