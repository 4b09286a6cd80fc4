package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MechanicActivity represents what a mechanic is currently assigned to.
type MechanicActivity string

const (
	ActivityNone        MechanicActivity = "none"
	ActivityInRepair    MechanicActivity = "in_repair"
	ActivityMaintenance MechanicActivity = "in_maintenance"
	ActivityDiagnosis   MechanicActivity = "in_diagnosis"
)

// Mechanic represents a workshop mechanic. The (FirstName, LastName) pair
// is expected to be unique, enforced best-effort at insert time.
type Mechanic struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"first_name" json:"first_name"`
	LastName     string             `bson:"last_name" json:"last_name"`
	Activity     MechanicActivity   `bson:"activity" json:"activity"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	HiredAt      *time.Time         `bson:"hired_at,omitempty" json:"hired_at,omitempty"`
}

// IsValidActivity checks if a mechanic activity is valid.
func IsValidActivity(activity MechanicActivity) bool {
	switch activity {
	case ActivityNone, ActivityInRepair, ActivityMaintenance, ActivityDiagnosis:
		return true
	default:
		return false
	}
}

// FullName returns the mechanic's display name.
func (m *Mechanic) FullName() string {
	return m.FirstName + " " + m.LastName
}

// IsAvailable reports whether the mechanic has no assigned activity.
func (m *Mechanic) IsAvailable() bool {
	return m.Activity == ActivityNone
}
