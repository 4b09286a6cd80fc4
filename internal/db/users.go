package db

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore defines the interface for user database operations.
type UserStore interface {
	InsertUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsers(ctx context.Context) []models.User
	UpdateUser(ctx context.Context, id string, user models.User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
	DeleteUser(ctx context.Context, id string) error
	HasAdmin(ctx context.Context) (bool, error)
}

// MongoUserStore implements UserStore for MongoDB.
type MongoUserStore struct {
	Collection *mongo.Collection
}

// InsertUser inserts a new user after checking the username is unused.
func (s *MongoUserStore) InsertUser(ctx context.Context, user *models.User) error {
	count, err := s.Collection.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateUsername
	}

	user.Active = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	res, err := s.Collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindUserByID finds a user by their ID.
func (s *MongoUserStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user models.User
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername finds a user by their username.
func (s *MongoUserStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUsers returns every user, ordered by username. Storage errors
// degrade to an empty result and are logged.
func (s *MongoUserStore) FindUsers(ctx context.Context) []models.User {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := s.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.WithError(err).Error("Failed to query users")
		return []models.User{}
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		log.WithError(err).Error("Failed to decode users")
		return []models.User{}
	}
	return users
}

// UpdateUser replaces a user document, stamping the update time. The
// password hash is preserved from the stored document when empty.
func (s *MongoUserStore) UpdateUser(ctx context.Context, id string, user models.User) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if user.PasswordHash == "" {
		existing, err := s.FindUserByID(ctx, id)
		if err != nil {
			return err
		}
		user.PasswordHash = existing.PasswordHash
	}
	user.ID = objectID
	user.UpdatedAt = time.Now()

	res, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword sets only the user's password hash.
func (s *MongoUserStore) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive enables or disables a user account.
func (s *MongoUserStore) SetActive(ctx context.Context, id string, active bool) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser deletes a user by their ID.
func (s *MongoUserStore) DeleteUser(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HasAdmin reports whether at least one admin user exists.
func (s *MongoUserStore) HasAdmin(ctx context.Context) (bool, error) {
	count, err := s.Collection.CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
