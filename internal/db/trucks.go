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

// TruckFilter narrows truck searches. Zero values mean "any".
type TruckFilter struct {
	Plate  string
	Model  string
	Year   int
	Status models.TruckStatus
}

// TruckStats summarizes the fleet for the dashboard.
type TruckStats struct {
	Total        int64        `json:"total"`
	Operational  int64        `json:"operational"`
	InRepair     int64        `json:"in_repair"`
	OutOfService int64        `json:"out_of_service"`
	AverageAge   float64      `json:"average_age"`
	TopModels    []ModelCount `json:"top_models"`
}

// ModelCount is one entry of the most common truck models ranking.
type ModelCount struct {
	Model string `json:"model" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// TruckStore defines the interface for truck database operations.
type TruckStore interface {
	InsertTruck(ctx context.Context, truck *models.Truck) error
	FindTruckByID(ctx context.Context, id string) (*models.Truck, error)
	FindTruckByPlate(ctx context.Context, plate string) (*models.Truck, error)
	FindTrucks(ctx context.Context, filter TruckFilter) []models.Truck
	UpdateTruck(ctx context.Context, id string, truck models.Truck) error
	UpdateTruckStatus(ctx context.Context, id string, status models.TruckStatus) error
	DeleteTruck(ctx context.Context, id string) error
	TruckStats(ctx context.Context) (*TruckStats, error)
}

// MongoTruckStore implements TruckStore for MongoDB.
type MongoTruckStore struct {
	Collection *mongo.Collection
}

// InsertTruck inserts a new truck after checking the plate is unused.
func (s *MongoTruckStore) InsertTruck(ctx context.Context, truck *models.Truck) error {
	count, err := s.Collection.CountDocuments(ctx, bson.M{"plate": truck.Plate})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicatePlate
	}

	truck.RegisteredAt = time.Now()
	truck.UpdatedAt = time.Now()
	res, err := s.Collection.InsertOne(ctx, truck)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		truck.ID = oid
	}
	return nil
}

// FindTruckByID finds a truck by its ID.
func (s *MongoTruckStore) FindTruckByID(ctx context.Context, id string) (*models.Truck, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var truck models.Truck
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&truck)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &truck, nil
}

// FindTruckByPlate finds a truck by its plate, case-insensitively.
func (s *MongoTruckStore) FindTruckByPlate(ctx context.Context, plate string) (*models.Truck, error) {
	var truck models.Truck
	err := s.Collection.FindOne(ctx, bson.M{"plate": bson.M{"$regex": "^" + plate + "$", "$options": "i"}}).Decode(&truck)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &truck, nil
}

// FindTrucks returns all trucks matching the filter, newest first.
// Storage errors degrade to an empty result and are logged.
func (s *MongoTruckStore) FindTrucks(ctx context.Context, filter TruckFilter) []models.Truck {
	query := bson.M{}
	if filter.Plate != "" {
		query["plate"] = regexFilter(filter.Plate)
	}
	if filter.Model != "" {
		query["model"] = regexFilter(filter.Model)
	}
	if filter.Year != 0 {
		query["year"] = filter.Year
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}})
	cursor, err := s.Collection.Find(ctx, query, opts)
	if err != nil {
		log.WithError(err).Error("Failed to query trucks")
		return []models.Truck{}
	}
	defer cursor.Close(ctx)

	trucks := []models.Truck{}
	if err := cursor.All(ctx, &trucks); err != nil {
		log.WithError(err).Error("Failed to decode trucks")
		return []models.Truck{}
	}
	return trucks
}

// UpdateTruck replaces a truck document, stamping the update time.
func (s *MongoTruckStore) UpdateTruck(ctx context.Context, id string, truck models.Truck) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	truck.ID = objectID
	truck.UpdatedAt = time.Now()

	res, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, truck)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTruckStatus sets only the truck's status.
func (s *MongoTruckStore) UpdateTruckStatus(ctx context.Context, id string, status models.TruckStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTruck deletes a truck by its ID.
func (s *MongoTruckStore) DeleteTruck(ctx context.Context, id string) error {
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

// TruckStats aggregates fleet-wide counters, average age and the five
// most common models.
func (s *MongoTruckStore) TruckStats(ctx context.Context) (*TruckStats, error) {
	stats := &TruckStats{TopModels: []ModelCount{}}

	statusPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.Collection.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, err
	}
	var byStatus []struct {
		Status models.TruckStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &byStatus); err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.Total += row.Count
		switch row.Status {
		case models.TruckOperational:
			stats.Operational = row.Count
		case models.TruckInRepair:
			stats.InRepair = row.Count
		case models.TruckOutOfService:
			stats.OutOfService = row.Count
		}
	}

	agePipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg_age": bson.M{"$avg": bson.M{
				"$subtract": bson.A{time.Now().Year(), "$year"},
			}},
		}}},
	}
	cursor, err = s.Collection.Aggregate(ctx, agePipeline)
	if err != nil {
		return nil, err
	}
	var ages []struct {
		AvgAge float64 `bson:"avg_age"`
	}
	if err := cursor.All(ctx, &ages); err != nil {
		return nil, err
	}
	if len(ages) > 0 {
		stats.AverageAge = ages[0].AvgAge
	}

	modelPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$model", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: 5}},
	}
	cursor, err = s.Collection.Aggregate(ctx, modelPipeline)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &stats.TopModels); err != nil {
		return nil, err
	}

	return stats, nil
}
