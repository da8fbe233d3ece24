package userstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sistercircle/sistercircle/internal/app/system/normalize"
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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "mentor"|"mentee"|"both"|"admin"`)
	errBadStatus      = errors.New(`status must be "active"|"suspended"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Interests = normalize.Interests(u.Interests)
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !models.ValidStatus(u.Status) {
		return models.User{}, errBadStatus
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ListMentors returns all active users who can be matched as mentors
// (role "mentor" or "both").
func (s *Store) ListMentors(ctx context.Context) ([]models.User, error) {
	filter := bson.M{
		"role":   bson.M{"$in": []string{models.RoleMentor, models.RoleBoth}},
		"status": models.StatusActive,
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var mentors []models.User
	if err := cur.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

// SearchMentors narrows the mentor directory by a case-insensitive name
// query and/or an exact interest tag. Empty arguments mean "no filter".
func (s *Store) SearchMentors(ctx context.Context, nameQuery, interest string) ([]models.User, error) {
	filter := bson.M{
		"role":   bson.M{"$in": []string{models.RoleMentor, models.RoleBoth}},
		"status": models.StatusActive,
	}
	if q := text.Fold(nameQuery); q != "" {
		filter["full_name_ci"] = bson.M{"$regex": regexp.QuoteMeta(q)}
	}
	if interest != "" {
		filter["interests"] = interest
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var mentors []models.User
	if err := cur.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

// ListAll returns every user, newest first. Admin dashboard only.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ProfileUpdate holds the profile fields a user may edit themselves.
type ProfileUpdate struct {
	FullName     string
	Role         string
	Bio          string
	Interests    []string
	Availability string
}

// UpdateProfile patches the owning user's profile fields. Field-level $set
// so concurrent edits to disjoint fields do not clobber each other.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	if !models.ValidRole(upd.Role) {
		return errBadRole
	}

	name := normalize.Name(upd.FullName)
	set := bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"role":         upd.Role,
		"bio":          upd.Bio,
		"interests":    normalize.Interests(upd.Interests),
		"availability": upd.Availability,
		"updated_at":   time.Now().UTC(),
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetStatus changes a user's account status (admin suspend/activate).
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidStatus(status) {
		return errBadStatus
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// PromoteAdmin sets the admin role on the user with the given email, if one
// exists. Used at startup to bootstrap the configured admin account.
func (s *Store) PromoteAdmin(ctx context.Context, email string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"email": normalize.Email(email)}, bson.M{"$set": bson.M{
		"role":       models.RoleAdmin,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// CountByRole returns the number of users per role. Admin dashboard summary.
func (s *Store) CountByRole(ctx context.Context) (map[string]int, error) {
	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$group": bson.M{"_id": "$role", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int)
	for cur.Next(ctx) {
		var row struct {
			Role string `bson:"_id"`
			N    int    `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Role] = row.N
	}
	return counts, cur.Err()
}
