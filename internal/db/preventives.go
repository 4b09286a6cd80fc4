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

// PreventiveFilter narrows preventive task searches.
type PreventiveFilter struct {
	Plate   string
	Model   string
	Type    models.PreventiveType
	Status  models.PreventiveStatus
	Urgency models.Urgency
}

// PreventiveStats summarizes scheduled maintenance for the dashboard.
type PreventiveStats struct {
	Total     int64 `json:"total"`
	Scheduled int64 `json:"scheduled"`
	InRepair  int64 `json:"in_repair"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Urgent    int64 `json:"urgent"`
}

// PreventiveStore defines the interface for preventive task operations.
type PreventiveStore interface {
	InsertPreventive(ctx context.Context, task *models.PreventiveTask) error
	FindPreventiveByID(ctx context.Context, id string) (*models.PreventiveTask, error)
	FindPreventivesByPlate(ctx context.Context, plate string) []models.PreventiveTask
	FindPreventives(ctx context.Context, filter PreventiveFilter) []models.PreventiveTask
	UpdatePreventive(ctx context.Context, id string, task models.PreventiveTask) error
	UpdatePreventiveStatus(ctx context.Context, id string, status models.PreventiveStatus) error
	DeletePreventive(ctx context.Context, id string) error
	PreventiveStats(ctx context.Context) (*PreventiveStats, error)
}

// MongoPreventiveStore implements PreventiveStore for MongoDB.
type MongoPreventiveStore struct {
	Collection *mongo.Collection
}

// InsertPreventive inserts a new preventive task.
func (s *MongoPreventiveStore) InsertPreventive(ctx context.Context, task *models.PreventiveTask) error {
	if task.Status == "" {
		task.Status = models.PreventiveScheduled
	}
	task.RegisteredAt = time.Now()

	res, err := s.Collection.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid
	}
	return nil
}

// FindPreventiveByID finds a preventive task by its ID.
func (s *MongoPreventiveStore) FindPreventiveByID(ctx context.Context, id string) (*models.PreventiveTask, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var task models.PreventiveTask
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindPreventivesByPlate returns every preventive task for a plate.
func (s *MongoPreventiveStore) FindPreventivesByPlate(ctx context.Context, plate string) []models.PreventiveTask {
	return s.FindPreventives(ctx, PreventiveFilter{Plate: plate})
}

// FindPreventives returns all preventive tasks matching the filter,
// newest first. Storage errors degrade to an empty result and are logged.
func (s *MongoPreventiveStore) FindPreventives(ctx context.Context, filter PreventiveFilter) []models.PreventiveTask {
	query := bson.M{}
	if filter.Plate != "" {
		query["plate"] = regexFilter(filter.Plate)
	}
	if filter.Model != "" {
		query["model"] = regexFilter(filter.Model)
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Urgency != "" {
		query["urgency"] = filter.Urgency
	}

	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}})
	cursor, err := s.Collection.Find(ctx, query, opts)
	if err != nil {
		log.WithError(err).Error("Failed to query preventive tasks")
		return []models.PreventiveTask{}
	}
	defer cursor.Close(ctx)

	tasks := []models.PreventiveTask{}
	if err := cursor.All(ctx, &tasks); err != nil {
		log.WithError(err).Error("Failed to decode preventive tasks")
		return []models.PreventiveTask{}
	}
	return tasks
}

// UpdatePreventive replaces a preventive task document.
func (s *MongoPreventiveStore) UpdatePreventive(ctx context.Context, id string, task models.PreventiveTask) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	task.ID = objectID

	res, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, task)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePreventiveStatus sets only the task's status and records when
// the repair workflow last touched it.
func (s *MongoPreventiveStore) UpdatePreventiveStatus(ctx context.Context, id string, status models.PreventiveStatus) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "last_repair_update": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePreventive deletes a preventive task by its ID.
func (s *MongoPreventiveStore) DeletePreventive(ctx context.Context, id string) error {
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

// PreventiveStats aggregates scheduled maintenance counters.
func (s *MongoPreventiveStore) PreventiveStats(ctx context.Context) (*PreventiveStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status models.PreventiveStatus `bson:"_id"`
		Count  int64                   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := &PreventiveStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.PreventiveScheduled:
			stats.Scheduled = row.Count
		case models.PreventiveInRepair:
			stats.InRepair = row.Count
		case models.PreventiveCompleted:
			stats.Completed = row.Count
		case models.PreventiveCancelled:
			stats.Cancelled = row.Count
		}
	}

	urgent, err := s.Collection.CountDocuments(ctx, bson.M{
		"urgency": models.UrgencyHigh,
		"status":  bson.M{"$in": bson.A{models.PreventiveScheduled, models.PreventiveInRepair}},
	})
	if err != nil {
		return nil, err
	}
	stats.Urgent = urgent

	return stats, nil
}
