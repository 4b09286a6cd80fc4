package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sentinel errors returned by the stores.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicatePlate    = errors.New("a truck with this plate already exists")
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	ErrDuplicateMechanic = errors.New("a mechanic with this name already exists")
)

// Collection names used by the application.
const (
	TrucksCollection      = "trucks"
	MechanicsCollection   = "mechanics"
	RepairsCollection     = "repairs"
	PreventivesCollection = "preventives"
	UsersCollection       = "users"
)

// Connect dials MongoDB with the configured URI and verifies the
// connection with a ping before returning the client.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the stores rely on. Unique indexes
// back the duplicate checks; the rest speed up the common filters.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	type spec struct {
		collection string
		model      mongo.IndexModel
	}
	specs := []spec{
		{TrucksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "plate", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{TrucksCollection, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
		{MechanicsCollection, mongo.IndexModel{Keys: bson.D{{Key: "activity", Value: 1}}}},
		{RepairsCollection, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
		{RepairsCollection, mongo.IndexModel{Keys: bson.D{{Key: "truck_id", Value: 1}}}},
		{RepairsCollection, mongo.IndexModel{Keys: bson.D{{Key: "mechanic_id", Value: 1}}}},
		{PreventivesCollection, mongo.IndexModel{Keys: bson.D{{Key: "urgency", Value: 1}}}},
		{PreventivesCollection, mongo.IndexModel{Keys: bson.D{{Key: "plate", Value: 1}}}},
		{UsersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}
	for _, s := range specs {
		if _, err := database.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("creating index on %s: %w", s.collection, err)
		}
	}
	return nil
}

// Stores bundles one store per entity so callers can inject them as a
// unit instead of reaching for a shared connection.
type Stores struct {
	Trucks      TruckStore
	Mechanics   MechanicStore
	Repairs     RepairStore
	Preventives PreventiveStore
	Users       UserStore
}

// NewStores builds Mongo-backed stores over the given database.
func NewStores(database *mongo.Database) *Stores {
	return &Stores{
		Trucks:      &MongoTruckStore{Collection: database.Collection(TrucksCollection)},
		Mechanics:   &MongoMechanicStore{Collection: database.Collection(MechanicsCollection)},
		Repairs:     &MongoRepairStore{Collection: database.Collection(RepairsCollection)},
		Preventives: &MongoPreventiveStore{Collection: database.Collection(PreventivesCollection)},
		Users:       &MongoUserStore{Collection: database.Collection(UsersCollection)},
	}
}

// regexFilter builds a case-insensitive substring match for text fields.
func regexFilter(value string) bson.M {
	return bson.M{"$regex": value, "$options": "i"}
}
