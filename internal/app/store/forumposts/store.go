package forumstore

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
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("forum_posts")}
}

var errEmptyBody = errors.New("post body is empty")

// Create inserts a new post with an empty report set. Body is expected to
// be sanitized by the caller.
func (s *Store) Create(ctx context.Context, p models.ForumPost) (models.ForumPost, error) {
	if p.Body == "" {
		return models.ForumPost{}, errEmptyBody
	}

	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC().UnixMilli()
	p.Reports = []primitive.ObjectID{}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.ForumPost{}, err
	}
	return p, nil
}

// GetByID loads a post by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ForumPost, error) {
	var p models.ForumPost
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all posts, newest first.
func (s *Store) List(ctx context.Context) ([]models.ForumPost, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.ForumPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Report adds the reporting user to the post's report set. $addToSet gives
// set-union semantics: the same user reporting twice still counts once.
func (s *Store) Report(ctx context.Context, postID, reporterID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$addToSet": bson.M{"reports": reporterID},
	})
	return err
}

// Resolve clears the report set. Nothing else is recorded: no resolver
// identity, no timestamp.
func (s *Store) Resolve(ctx context.Context, postID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$set": bson.M{"reports": []primitive.ObjectID{}},
	})
	return err
}

// ListReported returns the moderation queue: posts with a non-empty report
// set, most-reported first.
func (s *Store) ListReported(ctx context.Context) ([]models.ForumPost, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"reports.0": bson.M{"$exists": true}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.ForumPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountReported returns the size of the moderation queue.
func (s *Store) CountReported(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"reports.0": bson.M{"$exists": true}})
}

// Subscription is a live feed of post changes for the admin dashboard and
// forum views. Acquire on activation, Close on deactivation.
type Subscription struct {
	ch     chan models.ForumPost
	cancel context.CancelFunc
}

// C delivers inserted or updated posts.
func (sub *Subscription) C() <-chan models.ForumPost {
	return sub.ch
}

// Close releases the change stream.
func (sub *Subscription) Close() {
	sub.cancel()
}

// Subscribe opens a change stream over the posts collection. Requires a
// MongoDB replica set.
func (s *Store) Subscribe(ctx context.Context) (*Subscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "update", "replace"}},
		}}},
	}

	streamCtx, cancel := context.WithCancel(ctx)
	cs, err := s.c.Watch(streamCtx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		ch:     make(chan models.ForumPost),
		cancel: cancel,
	}

	go func() {
		defer close(sub.ch)
		defer cs.Close(context.Background())
		for cs.Next(streamCtx) {
			var ev struct {
				FullDocument models.ForumPost `bson:"fullDocument"`
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
