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

// MechanicFilter narrows mechanic searches. Name matches first or last
// name; zero values mean "any".
type MechanicFilter struct {
	Name     string
	Activity models.MechanicActivity
}

// MechanicStats summarizes the workshop staff.
type MechanicStats struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Busy        int64 `json:"busy"`
	InRepair    int64 `json:"in_repair"`
	Maintenance int64 `json:"in_maintenance"`
	Diagnosis   int64 `json:"in_diagnosis"`
}

// MechanicStore defines the interface for mechanic database operations.
type MechanicStore interface {
	InsertMechanic(ctx context.Context, mechanic *models.Mechanic) error
	FindMechanicByID(ctx context.Context, id string) (*models.Mechanic, error)
	FindMechanics(ctx context.Context, filter MechanicFilter) []models.Mechanic
	FindAvailableMechanics(ctx context.Context) []models.Mechanic
	UpdateMechanic(ctx context.Context, id string, mechanic models.Mechanic) error
	UpdateMechanicActivity(ctx context.Context, id string, activity models.MechanicActivity) error
	DeleteMechanic(ctx context.Context, id string) error
	MechanicStats(ctx context.Context) (*MechanicStats, error)
}

// MongoMechanicStore implements MechanicStore for MongoDB.
type MongoMechanicStore struct {
	Collection *mongo.Collection
}

// InsertMechanic inserts a new mechanic. The full-name uniqueness check
// is best effort; there is no unique index backing it.
func (s *MongoMechanicStore) InsertMechanic(ctx context.Context, mechanic *models.Mechanic) error {
	count, err := s.Collection.CountDocuments(ctx, bson.M{
		"first_name": mechanic.FirstName,
		"last_name":  mechanic.LastName,
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateMechanic
	}

	if mechanic.Activity == "" {
		mechanic.Activity = models.ActivityNone
	}
	mechanic.RegisteredAt = time.Now()
	mechanic.UpdatedAt = time.Now()
	res, err := s.Collection.InsertOne(ctx, mechanic)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		mechanic.ID = oid
	}
	return nil
}

// FindMechanicByID finds a mechanic by their ID.
func (s *MongoMechanicStore) FindMechanicByID(ctx context.Context, id string) (*models.Mechanic, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var mechanic models.Mechanic
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&mechanic)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mechanic, nil
}

// FindMechanics returns all mechanics matching the filter, last name
// first. Storage errors degrade to an empty result and are logged.
func (s *MongoMechanicStore) FindMechanics(ctx context.Context, filter MechanicFilter) []models.Mechanic {
	query := bson.M{}
	if filter.Name != "" {
		query["$or"] = bson.A{
			bson.M{"first_name": regexFilter(filter.Name)},
			bson.M{"last_name": regexFilter(filter.Name)},
		}
	}
	if filter.Activity != "" {
		query["activity"] = filter.Activity
	}

	opts := options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}})
	cursor, err := s.Collection.Find(ctx, query, opts)
	if err != nil {
		log.WithError(err).Error("Failed to query mechanics")
		return []models.Mechanic{}
	}
	defer cursor.Close(ctx)

	mechanics := []models.Mechanic{}
	if err := cursor.All(ctx, &mechanics); err != nil {
		log.WithError(err).Error("Failed to decode mechanics")
		return []models.Mechanic{}
	}
	return mechanics
}

// FindAvailableMechanics returns mechanics with no assigned activity.
func (s *MongoMechanicStore) FindAvailableMechanics(ctx context.Context) []models.Mechanic {
	return s.FindMechanics(ctx, MechanicFilter{Activity: models.ActivityNone})
}

// UpdateMechanic replaces a mechanic document, stamping the update time.
func (s *MongoMechanicStore) UpdateMechanic(ctx context.Context, id string, mechanic models.Mechanic) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	mechanic.ID = objectID
	mechanic.UpdatedAt = time.Now()

	res, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, mechanic)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMechanicActivity sets only the mechanic's current activity.
func (s *MongoMechanicStore) UpdateMechanicActivity(ctx context.Context, id string, activity models.MechanicActivity) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"activity": activity, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMechanic deletes a mechanic by their ID.
func (s *MongoMechanicStore) DeleteMechanic(ctx context.Context, id string) error {
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

// MechanicStats aggregates staff counters per activity.
func (s *MongoMechanicStore) MechanicStats(ctx context.Context) (*MechanicStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$activity", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Activity models.MechanicActivity `bson:"_id"`
		Count    int64                   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &MechanicStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Activity {
		case models.ActivityNone:
			stats.Available = row.Count
		case models.ActivityInRepair:
			stats.InRepair = row.Count
		case models.ActivityMaintenance:
			stats.Maintenance = row.Count
		case models.ActivityDiagnosis:
			stats.Diagnosis = row.Count
		}
	}
	stats.Busy = stats.Total - stats.Available
	return stats, nil
}
