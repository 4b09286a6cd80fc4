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

// RepairFilter narrows repair searches. Text fields match
// case-insensitively; the date range bounds the entry date.
type RepairFilter struct {
	FaultID     string
	FaultReason string
	Description string
	Status      models.RepairStatus
	TruckID     string
	MechanicID  string
	EntryFrom   *time.Time
	EntryTo     *time.Time
}

// RepairStats summarizes the repair history for the dashboard.
type RepairStats struct {
	Total                int64   `json:"total"`
	Waiting              int64   `json:"waiting"`
	InRepair             int64   `json:"in_repair"`
	Repaired             int64   `json:"repaired"`
	Cancelled            int64   `json:"cancelled"`
	TotalCost            float64 `json:"total_cost"`
	AvgTurnaroundHours   float64 `json:"avg_turnaround_hours"`
	CompletedWithWindows int64   `json:"completed_with_windows"`
}

// RepairStore defines the interface for repair database operations.
type RepairStore interface {
	InsertRepair(ctx context.Context, repair *models.Repair) error
	FindRepairByID(ctx context.Context, id string) (*models.Repair, error)
	FindRepairs(ctx context.Context, filter RepairFilter) []models.Repair
	FindOpenRepairsByTruck(ctx context.Context, truckID primitive.ObjectID) []models.Repair
	UpdateRepair(ctx context.Context, id string, repair models.Repair) error
	DeleteRepair(ctx context.Context, id string) error
	RepairStats(ctx context.Context) (*RepairStats, error)
}

// MongoRepairStore implements RepairStore for MongoDB.
type MongoRepairStore struct {
	Collection *mongo.Collection
}

// InsertRepair inserts a new repair record.
func (s *MongoRepairStore) InsertRepair(ctx context.Context, repair *models.Repair) error {
	if repair.Status == "" {
		repair.Status = models.RepairWaiting
	}
	if repair.EntryDate.IsZero() {
		repair.EntryDate = time.Now()
	}
	repair.UpdatedAt = time.Now()

	res, err := s.Collection.InsertOne(ctx, repair)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		repair.ID = oid
	}
	return nil
}

// FindRepairByID finds a repair by its ID.
func (s *MongoRepairStore) FindRepairByID(ctx context.Context, id string) (*models.Repair, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var repair models.Repair
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&repair)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &repair, nil
}

// FindRepairs returns all repairs matching the filter, newest entry
// first. Storage errors degrade to an empty result and are logged.
func (s *MongoRepairStore) FindRepairs(ctx context.Context, filter RepairFilter) []models.Repair {
	query := bson.M{}
	if filter.FaultID != "" {
		query["fault_id"] = regexFilter(filter.FaultID)
	}
	if filter.FaultReason != "" {
		query["fault_reason"] = regexFilter(filter.FaultReason)
	}
	if filter.Description != "" {
		query["description"] = regexFilter(filter.Description)
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.TruckID != "" {
		if oid, err := primitive.ObjectIDFromHex(filter.TruckID); err == nil {
			query["truck_id"] = oid
		}
	}
	if filter.MechanicID != "" {
		if oid, err := primitive.ObjectIDFromHex(filter.MechanicID); err == nil {
			query["mechanic_id"] = oid
		}
	}
	if filter.EntryFrom != nil || filter.EntryTo != nil {
		dateRange := bson.M{}
		if filter.EntryFrom != nil {
			dateRange["$gte"] = *filter.EntryFrom
		}
		if filter.EntryTo != nil {
			dateRange["$lte"] = *filter.EntryTo
		}
		query["entry_date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "entry_date", Value: -1}})
	cursor, err := s.Collection.Find(ctx, query, opts)
	if err != nil {
		log.WithError(err).Error("Failed to query repairs")
		return []models.Repair{}
	}
	defer cursor.Close(ctx)

	repairs := []models.Repair{}
	if err := cursor.All(ctx, &repairs); err != nil {
		log.WithError(err).Error("Failed to decode repairs")
		return []models.Repair{}
	}
	return repairs
}

// FindOpenRepairsByTruck returns the truck's repairs still in the open
// flow (waiting or in repair).
func (s *MongoRepairStore) FindOpenRepairsByTruck(ctx context.Context, truckID primitive.ObjectID) []models.Repair {
	query := bson.M{
		"truck_id": truckID,
		"status":   bson.M{"$in": bson.A{models.RepairWaiting, models.RepairInRepair}},
	}
	cursor, err := s.Collection.Find(ctx, query)
	if err != nil {
		log.WithError(err).Error("Failed to query open repairs")
		return []models.Repair{}
	}
	defer cursor.Close(ctx)

	repairs := []models.Repair{}
	if err := cursor.All(ctx, &repairs); err != nil {
		log.WithError(err).Error("Failed to decode open repairs")
		return []models.Repair{}
	}
	return repairs
}

// UpdateRepair replaces a repair document, stamping the update time.
func (s *MongoRepairStore) UpdateRepair(ctx context.Context, id string, repair models.Repair) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	repair.ID = objectID
	repair.UpdatedAt = time.Now()

	res, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, repair)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRepair deletes a repair by its ID.
func (s *MongoRepairStore) DeleteRepair(ctx context.Context, id string) error {
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

// RepairStats aggregates per-status counters, the total completed cost
// and the average turnaround in hours over repairs with both dates set.
func (s *MongoRepairStore) RepairStats(ctx context.Context) (*RepairStats, error) {
	stats := &RepairStats{}

	statusPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"cost":  bson.M{"$sum": "$cost"},
		}}},
	}
	cursor, err := s.Collection.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status models.RepairStatus `bson:"_id"`
		Count  int64               `bson:"count"`
		Cost   float64             `bson:"cost"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.RepairWaiting:
			stats.Waiting = row.Count
		case models.RepairInRepair:
			stats.InRepair = row.Count
		case models.RepairRepaired:
			stats.Repaired = row.Count
			stats.TotalCost = row.Cost
		case models.RepairCancelled:
			stats.Cancelled = row.Count
		}
	}

	turnaroundPipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":    models.RepairRepaired,
			"exit_date": bson.M{"$ne": nil},
		}}},
		{{Key: "$project", Value: bson.M{
			"hours": bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{"$exit_date", "$entry_date"}},
				1000 * 60 * 60,
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"avg_hours": bson.M{"$avg": "$hours"},
			"count":     bson.M{"$sum": 1},
		}}},
	}
	cursor, err = s.Collection.Aggregate(ctx, turnaroundPipeline)
	if err != nil {
		return nil, err
	}
	var turnaround []struct {
		AvgHours float64 `bson:"avg_hours"`
		Count    int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &turnaround); err != nil {
		return nil, err
	}
	if len(turnaround) > 0 {
		stats.AvgTurnaroundHours = turnaround[0].AvgHours
		stats.CompletedWithWindows = turnaround[0].Count
	}

	return stats, nil
}
