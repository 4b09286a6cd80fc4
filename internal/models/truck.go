package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TruckStatus represents the operational state of a truck.
type TruckStatus string

const (
	TruckOperational  TruckStatus = "operational"
	TruckInRepair     TruckStatus = "in_repair"
	TruckOutOfService TruckStatus = "out_of_service"
)

// Truck represents a fleet truck. The plate is unique across the fleet.
type Truck struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Plate        string             `bson:"plate" json:"plate"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	Status       TruckStatus        `bson:"status" json:"status"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsValidTruckStatus checks if a truck status is valid.
func IsValidTruckStatus(status TruckStatus) bool {
	switch status {
	case TruckOperational, TruckInRepair, TruckOutOfService:
		return true
	default:
		return false
	}
}

// Age returns the truck's age in years relative to the given year.
func (t *Truck) Age(currentYear int) int {
	return currentYear - t.Year
}
