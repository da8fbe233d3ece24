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

var (
	errBadMessageType = errors.New(`message type must be "text" or "audio"`)
	errEmptyMessage   = errors.New("message has no content")
)

// AddMessage appends a chat message to a session. Messages are immutable
// once written; there is no update path.
func (s *Store) AddMessage(ctx context.Context, m models.Message) (models.Message, error) {
	if !models.ValidMessageType(m.Type) {
		return models.Message{}, errBadMessageType
	}
	switch m.Type {
	case models.MessageText:
		if m.Body == "" {
			return models.Message{}, errEmptyMessage
		}
	case models.MessageAudio:
		if m.AudioPath == "" {
			return models.Message{}, errEmptyMessage
		}
	}

	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()

	if _, err := s.messages.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListMessages returns a session's messages ordered ascending by timestamp.
func (s *Store) ListMessages(ctx context.Context, sessionID primitive.ObjectID) ([]models.Message, error) {
	cur, err := s.messages.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MessageSubscription is a live feed of new messages for one session. It is
// an explicit handle: acquire with SubscribeMessages when the chat view
// activates, release with Close when it deactivates.
type MessageSubscription struct {
	ch     chan models.Message
	cs     *mongo.ChangeStream
	cancel context.CancelFunc
}

// C delivers newly inserted messages. The channel closes when the
// subscription is closed or the underlying stream ends.
func (sub *MessageSubscription) C() <-chan models.Message {
	return sub.ch
}

// Close releases the change stream. Safe to call once per subscription.
func (sub *MessageSubscription) Close() {
	sub.cancel()
}

// SubscribeMessages opens a change stream over the session's messages.
// Requires a MongoDB replica set (change streams are unavailable on
// standalone servers).
func (s *Store) SubscribeMessages(ctx context.Context, sessionID primitive.ObjectID) (*MessageSubscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType":           "insert",
			"fullDocument.session_id": sessionID,
		}}},
	}

	streamCtx, cancel := context.WithCancel(ctx)
	cs, err := s.messages.Watch(streamCtx, pipeline)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &MessageSubscription{
		ch:     make(chan models.Message),
		cs:     cs,
		cancel: cancel,
	}

	go func() {
		defer close(sub.ch)
		defer cs.Close(context.Background())
		for cs.Next(streamCtx) {
			var ev struct {
				FullDocument models.Message `bson:"fullDocument"`
			}
			if err := cs.Decode(&ev); err != nil {
				continue
			}
			select {
			case sub.ch <- ev.FullDocument:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}
