package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepairStatus represents the lifecycle state of a repair.
type RepairStatus string

const (
	RepairWaiting   RepairStatus = "waiting"
	RepairInRepair  RepairStatus = "in_repair"
	RepairRepaired  RepairStatus = "repaired"
	RepairCancelled RepairStatus = "cancelled"
)

const noteTimeFormat = "02/01/2006 15:04"

// Repair represents a corrective maintenance job tied to one truck and
// optionally one mechanic. Status transitions are restricted:
// waiting -> in_repair -> repaired, with cancelled reachable from any
// non-terminal state; repaired and cancelled can be reopened.
type Repair struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TruckID         primitive.ObjectID  `bson:"truck_id" json:"truck_id"`
	MechanicID      *primitive.ObjectID `bson:"mechanic_id,omitempty" json:"mechanic_id,omitempty"`
	FaultID         string              `bson:"fault_id" json:"fault_id"`
	FaultReason     string              `bson:"fault_reason" json:"fault_reason"`
	Description     string              `bson:"description" json:"description"`
	Status          RepairStatus        `bson:"status" json:"status"`
	EstimatedHours  *float64            `bson:"estimated_hours,omitempty" json:"estimated_hours,omitempty"`
	EntryDate       time.Time           `bson:"entry_date" json:"entry_date"`
	ExitDate        *time.Time          `bson:"exit_date,omitempty" json:"exit_date,omitempty"`
	AdditionalNotes string              `bson:"additional_notes" json:"additional_notes"`
	Cost            float64             `bson:"cost" json:"cost"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}

// IsValidRepairStatus checks if a repair status is valid.
func IsValidRepairStatus(status RepairStatus) bool {
	switch status {
	case RepairWaiting, RepairInRepair, RepairRepaired, RepairCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the repair is in a terminal state.
func (r *Repair) IsTerminal() bool {
	return r.Status == RepairRepaired || r.Status == RepairCancelled
}

// IsOpen reports whether the repair is still being worked on.
func (r *Repair) IsOpen() bool {
	return r.Status == RepairWaiting || r.Status == RepairInRepair
}

// AppendNote adds a timestamped entry to the append-only notes log.
func (r *Repair) AppendNote(note string) {
	entry := fmt.Sprintf("%s (%s)", note, time.Now().Format(noteTimeFormat))
	if r.AdditionalNotes != "" {
		r.AdditionalNotes += "\n\n" + entry
	} else {
		r.AdditionalNotes = entry
	}
}

// Complete marks the repair as repaired. Returns false if it was already
// repaired. The exit date is stamped only when unset so a reopened and
// re-completed repair keeps a consistent turnaround window.
func (r *Repair) Complete(cost *float64, notes string) bool {
	if r.Status == RepairRepaired {
		return false
	}
	r.Status = RepairRepaired
	if r.ExitDate == nil {
		now := time.Now()
		r.ExitDate = &now
	}
	if cost != nil {
		r.Cost = *cost
	}
	if notes != "" {
		r.AppendNote("Completion notes: " + notes)
	}
	r.UpdatedAt = time.Now()
	return true
}

// Cancel marks the repair as cancelled. Returns false when the repair is
// already in a terminal state.
func (r *Repair) Cancel(reason string) bool {
	if r.IsTerminal() {
		return false
	}
	r.Status = RepairCancelled
	if reason != "" {
		r.AppendNote("Cancellation reason: " + reason)
	}
	r.UpdatedAt = time.Now()
	return true
}

// Reopen moves a repaired or cancelled repair back into the open flow,
// landing in in_repair when a mechanic is still assigned and waiting
// otherwise. The exit date is cleared and a reopen note appended.
func (r *Repair) Reopen() bool {
	if !r.IsTerminal() {
		return false
	}
	if r.MechanicID != nil {
		r.Status = RepairInRepair
	} else {
		r.Status = RepairWaiting
	}
	r.ExitDate = nil
	r.AppendNote("Repair reopened")
	r.UpdatedAt = time.Now()
	return true
}

// AssignMechanic assigns a mechanic to the repair. A waiting repair
// auto-advances to in_repair. Returns false on terminal repairs.
func (r *Repair) AssignMechanic(mechanicID primitive.ObjectID) bool {
	if r.IsTerminal() {
		return false
	}
	r.MechanicID = &mechanicID
	if r.Status == RepairWaiting {
		r.Status = RepairInRepair
	}
	r.UpdatedAt = time.Now()
	return true
}
