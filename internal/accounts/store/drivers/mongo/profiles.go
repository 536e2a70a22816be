// Package mongo stores extended profile documents in a MongoDB collection
// keyed by user_id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is the collection profiles live in unless configured
// otherwise.
const DefaultCollection = "user_profiles"

type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // server selection and connect timeout
}

type Store struct {
	client     *mongo.Client
	collection *mongo.Collection

	indexed atomic.Bool
}

var _ store.Profiles = (*Store)(nil)

type profileDoc struct {
	UserID    string     `bson:"user_id"`
	Username  string     `bson:"username"`
	Email     string     `bson:"email"`
	FirstName string     `bson:"firstName"`
	LastName  string     `bson:"lastName"`
	Age       *int       `bson:"age"`
	DOB       *string    `bson:"dob"`
	Contact   *string    `bson:"contact"`
	Address   *string    `bson:"address"`
	City      *string    `bson:"city"`
	Country   *string    `bson:"country"`
	Bio       *string    `bson:"bio"`
	CreatedAt *time.Time `bson:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt"`
}

// NewStore builds a client for cfg.URI. No connection is made until the
// first operation, so an unreachable server surfaces as operation errors
// rather than failing construction. Only a malformed URI is an error here.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetServerSelectionTimeout(cfg.Timeout).SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// EnsureIndexes creates the unique user_id index. It is safe to call
// repeatedly; once it has succeeded later calls return immediately.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if s.indexed.Load() {
		return nil
	}

	if _, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	}); err != nil {
		return fmt.Errorf("mongo index: %w", err)
	}

	s.indexed.Store(true)
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var doc profileDoc
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Profile{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	return profileFromDoc(doc), nil
}

func (s *Store) CreateProfile(ctx context.Context, p domain.Profile) error {
	// The write reports its own error if the server is still unreachable.
	_ = s.EnsureIndexes(ctx)

	_, err := s.collection.InsertOne(ctx, docFromProfile(p))
	return err
}

func (s *Store) UpsertProfile(ctx context.Context, seed domain.Profile, f domain.ProfileFields, now time.Time) error {
	_ = s.EnsureIndexes(ctx)

	now = now.UTC()
	update := bson.M{
		"$set": bson.M{
			"firstName": f.FirstName,
			"lastName":  f.LastName,
			"age":       f.Age,
			"dob":       f.DOB,
			"contact":   f.Contact,
			"address":   f.Address,
			"city":      f.City,
			"country":   f.Country,
			"bio":       f.Bio,
			"updatedAt": now,
		},
		// user_id comes from the filter on insert.
		"$setOnInsert": bson.M{
			"username":  seed.Username,
			"email":     seed.Email,
			"createdAt": now,
		},
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"user_id": seed.UserID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func docFromProfile(p domain.Profile) profileDoc {
	return profileDoc{
		UserID:    p.UserID,
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Age:       p.Age,
		DOB:       p.DOB,
		Contact:   p.Contact,
		Address:   p.Address,
		City:      p.City,
		Country:   p.Country,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func profileFromDoc(d profileDoc) domain.Profile {
	return domain.Profile{
		UserID:    d.UserID,
		Username:  d.Username,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Age:       d.Age,
		DOB:       d.DOB,
		Contact:   d.Contact,
		Address:   d.Address,
		City:      d.City,
		Country:   d.Country,
		Bio:       d.Bio,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
