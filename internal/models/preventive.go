package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreventiveStatus represents the lifecycle state of a preventive task.
type PreventiveStatus string

const (
	PreventiveScheduled PreventiveStatus = "scheduled"
	PreventiveInRepair  PreventiveStatus = "in_repair"
	PreventiveCompleted PreventiveStatus = "completed"
	PreventiveCancelled PreventiveStatus = "cancelled"
)

// PreventiveType represents the kind of scheduled maintenance.
type PreventiveType string

const (
	PreventiveOilChange  PreventiveType = "oil_change"
	PreventiveBrakes     PreventiveType = "brakes"
	PreventiveSuspension PreventiveType = "suspension"
	PreventiveEngine     PreventiveType = "engine"
	PreventiveElectrical PreventiveType = "electrical"
	PreventiveGeneral    PreventiveType = "general"
)

// Urgency ranks how soon a preventive task should be handled.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// PreventiveTask represents a scheduled (non-corrective) maintenance item.
// It references its truck by plate rather than by id, matching how the
// workshop tracks these on paper.
type PreventiveTask struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Plate            string             `bson:"plate" json:"plate"`
	Model            string             `bson:"model" json:"model"`
	Type             PreventiveType     `bson:"type" json:"type"`
	Status           PreventiveStatus   `bson:"status" json:"status"`
	Urgency          Urgency            `bson:"urgency" json:"urgency"`
	RegisteredAt     time.Time          `bson:"registered_at" json:"registered_at"`
	LastRepairUpdate *time.Time         `bson:"last_repair_update,omitempty" json:"last_repair_update,omitempty"`
}

// IsValidPreventiveStatus checks if a preventive task status is valid.
func IsValidPreventiveStatus(status PreventiveStatus) bool {
	switch status {
	case PreventiveScheduled, PreventiveInRepair, PreventiveCompleted, PreventiveCancelled:
		return true
	default:
		return false
	}
}

// IsValidPreventiveType checks if a preventive maintenance type is valid.
func IsValidPreventiveType(t PreventiveType) bool {
	switch t {
	case PreventiveOilChange, PreventiveBrakes, PreventiveSuspension,
		PreventiveEngine, PreventiveElectrical, PreventiveGeneral:
		return true
	default:
		return false
	}
}

// IsValidUrgency checks if an urgency level is valid.
func IsValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	default:
		return false
	}
}
