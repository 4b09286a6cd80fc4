package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/events"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

var (
	// ErrRepairRequired is returned when a truck or preventive task is
	// moved into the in-repair state without an open repair backing it.
	ErrRepairRequired = errors.New("an open repair is required to enter the in-repair state")

	// ErrInvalidTransition is returned when a repair refuses a lifecycle
	// transition, such as completing an already repaired job.
	ErrInvalidTransition = errors.New("invalid repair state transition")

	// ErrInvalidStatus is returned for unknown status values.
	ErrInvalidStatus = errors.New("invalid status value")
)

// RepairDraft carries the fields needed to open a new repair. A zero
// FaultID gets a generated one.
type RepairDraft struct {
	TruckID        string     `json:"truck_id"`
	MechanicID     string     `json:"mechanic_id,omitempty"`
	FaultID        string     `json:"fault_id,omitempty"`
	FaultReason    string     `json:"fault_reason"`
	Description    string     `json:"description,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	EntryDate      *time.Time `json:"entry_date,omitempty"`
}

// StatusSyncWorkflow keeps trucks, mechanics, repairs and preventive
// tasks consistent across status changes. Every operation looks up the
// referenced documents first and aborts before writing anything when one
// is missing. There is no multi-document transaction, so a crash
// mid-operation can leave the last writes unapplied.
type StatusSyncWorkflow struct {
	trucks      db.TruckStore
	mechanics   db.MechanicStore
	repairs     db.RepairStore
	preventives db.PreventiveStore
	bus         *events.Bus
}

// NewStatusSyncWorkflow wires the workflow over injected stores and bus.
func NewStatusSyncWorkflow(stores *db.Stores, bus *events.Bus) *StatusSyncWorkflow {
	return &StatusSyncWorkflow{
		trucks:      stores.Trucks,
		mechanics:   stores.Mechanics,
		repairs:     stores.Repairs,
		preventives: stores.Preventives,
		bus:         bus,
	}
}

// RegisterRepair opens a repair for a truck, moves the truck into the
// in-repair state and busies the mechanic when one is assigned.
func (w *StatusSyncWorkflow) RegisterRepair(ctx context.Context, draft RepairDraft) (*models.Repair, error) {
	truck, err := w.trucks.FindTruckByID(ctx, draft.TruckID)
	if err != nil {
		return nil, fmt.Errorf("looking up truck: %w", err)
	}

	var mechanic *models.Mechanic
	if draft.MechanicID != "" {
		mechanic, err = w.mechanics.FindMechanicByID(ctx, draft.MechanicID)
		if err != nil {
			return nil, fmt.Errorf("looking up mechanic: %w", err)
		}
	}

	faultID := draft.FaultID
	if faultID == "" {
		faultID = "F-" + uuid.NewString()[:8]
	}
	repair := &models.Repair{
		TruckID:        truck.ID,
		FaultID:        faultID,
		FaultReason:    draft.FaultReason,
		Description:    draft.Description,
		Status:         models.RepairWaiting,
		EstimatedHours: draft.EstimatedHours,
	}
	if draft.EntryDate != nil {
		repair.EntryDate = *draft.EntryDate
	}
	if mechanic != nil {
		repair.AssignMechanic(mechanic.ID)
	}

	if err := w.repairs.InsertRepair(ctx, repair); err != nil {
		return nil, fmt.Errorf("inserting repair: %w", err)
	}
	if err := w.trucks.UpdateTruckStatus(ctx, truck.ID.Hex(), models.TruckInRepair); err != nil {
		return nil, fmt.Errorf("updating truck status: %w", err)
	}
	if mechanic != nil {
		if err := w.mechanics.UpdateMechanicActivity(ctx, mechanic.ID.Hex(), models.ActivityInRepair); err != nil {
			return nil, fmt.Errorf("updating mechanic activity: %w", err)
		}
		w.bus.Publish(events.MechanicUpdated, mechanic.ID.Hex())
	}

	log.WithFields(log.Fields{
		"repair_id": repair.ID.Hex(),
		"truck":     truck.Plate,
		"fault_id":  repair.FaultID,
	}).Info("Repair registered")

	w.bus.Publish(events.RepairCreated, repair.ID.Hex())
	w.bus.Publish(events.TruckUpdated, truck.ID.Hex())
	return repair, nil
}

// ChangeTruckStatus moves a truck to the given status. Entering the
// in-repair state requires either a repair draft to open or an already
// open repair for the truck.
func (w *StatusSyncWorkflow) ChangeTruckStatus(ctx context.Context, truckID string, status models.TruckStatus, draft *RepairDraft) error {
	if !models.IsValidTruckStatus(status) {
		return ErrInvalidStatus
	}
	truck, err := w.trucks.FindTruckByID(ctx, truckID)
	if err != nil {
		return err
	}

	if status == models.TruckInRepair {
		if draft != nil {
			draft.TruckID = truckID
			_, err := w.RegisterRepair(ctx, *draft)
			return err
		}
		if len(w.repairs.FindOpenRepairsByTruck(ctx, truck.ID)) == 0 {
			return ErrRepairRequired
		}
	}

	if err := w.trucks.UpdateTruckStatus(ctx, truckID, status); err != nil {
		return err
	}
	w.bus.Publish(events.TruckUpdated, truckID)
	return nil
}

// ChangePreventiveStatus moves a preventive task to the given status.
// Entering the in-repair state requires a repair draft or an open repair
// for the truck identified by the task's plate.
func (w *StatusSyncWorkflow) ChangePreventiveStatus(ctx context.Context, taskID string, status models.PreventiveStatus, draft *RepairDraft) error {
	if !models.IsValidPreventiveStatus(status) {
		return ErrInvalidStatus
	}
	task, err := w.preventives.FindPreventiveByID(ctx, taskID)
	if err != nil {
		return err
	}

	if status == models.PreventiveInRepair {
		truck, err := w.trucks.FindTruckByPlate(ctx, task.Plate)
		if err != nil {
			return fmt.Errorf("looking up truck %s: %w", task.Plate, err)
		}
		if draft != nil {
			draft.TruckID = truck.ID.Hex()
			if draft.FaultReason == "" {
				draft.FaultReason = fmt.Sprintf("Preventive maintenance: %s", task.Type)
			}
			if _, err := w.RegisterRepair(ctx, *draft); err != nil {
				return err
			}
		} else if len(w.repairs.FindOpenRepairsByTruck(ctx, truck.ID)) == 0 {
			return ErrRepairRequired
		}
	}

	if err := w.preventives.UpdatePreventiveStatus(ctx, taskID, status); err != nil {
		return err
	}
	w.bus.Publish(events.PreventiveUpdated, taskID)
	return nil
}

// AssignMechanic assigns a mechanic to an open repair, busying the
// mechanic and keeping the truck in the in-repair state.
func (w *StatusSyncWorkflow) AssignMechanic(ctx context.Context, repairID, mechanicID string) error {
	repair, err := w.repairs.FindRepairByID(ctx, repairID)
	if err != nil {
		return err
	}
	mechanic, err := w.mechanics.FindMechanicByID(ctx, mechanicID)
	if err != nil {
		return fmt.Errorf("looking up mechanic: %w", err)
	}

	if !repair.AssignMechanic(mechanic.ID) {
		return ErrInvalidTransition
	}
	if err := w.repairs.UpdateRepair(ctx, repairID, *repair); err != nil {
		return err
	}
	if err := w.mechanics.UpdateMechanicActivity(ctx, mechanicID, models.ActivityInRepair); err != nil {
		return err
	}
	if err := w.trucks.UpdateTruckStatus(ctx, repair.TruckID.Hex(), models.TruckInRepair); err != nil {
		return err
	}

	w.bus.Publish(events.RepairUpdated, repairID)
	w.bus.Publish(events.MechanicUpdated, mechanicID)
	w.bus.Publish(events.TruckUpdated, repair.TruckID.Hex())
	return nil
}

// CompleteRepair marks a repair as repaired, returns the truck to the
// operational state and frees the assigned mechanic.
func (w *StatusSyncWorkflow) CompleteRepair(ctx context.Context, repairID string, cost *float64, notes string) error {
	repair, err := w.repairs.FindRepairByID(ctx, repairID)
	if err != nil {
		return err
	}
	if !repair.Complete(cost, notes) {
		return ErrInvalidTransition
	}
	if err := w.repairs.UpdateRepair(ctx, repairID, *repair); err != nil {
		return err
	}
	if err := w.trucks.UpdateTruckStatus(ctx, repair.TruckID.Hex(), models.TruckOperational); err != nil {
		return err
	}
	if repair.MechanicID != nil {
		if err := w.mechanics.UpdateMechanicActivity(ctx, repair.MechanicID.Hex(), models.ActivityNone); err != nil {
			return err
		}
		w.bus.Publish(events.MechanicUpdated, repair.MechanicID.Hex())
	}

	log.WithFields(log.Fields{
		"repair_id": repairID,
		"cost":      repair.Cost,
	}).Info("Repair completed")

	w.bus.Publish(events.RepairUpdated, repairID)
	w.bus.Publish(events.TruckUpdated, repair.TruckID.Hex())
	return nil
}

// CancelRepair cancels an open repair, frees the assigned mechanic and
// returns the truck to the operational state unless another open repair
// still holds it.
func (w *StatusSyncWorkflow) CancelRepair(ctx context.Context, repairID string, reason string) error {
	repair, err := w.repairs.FindRepairByID(ctx, repairID)
	if err != nil {
		return err
	}
	if !repair.Cancel(reason) {
		return ErrInvalidTransition
	}
	if err := w.repairs.UpdateRepair(ctx, repairID, *repair); err != nil {
		return err
	}
	if repair.MechanicID != nil {
		if err := w.mechanics.UpdateMechanicActivity(ctx, repair.MechanicID.Hex(), models.ActivityNone); err != nil {
			return err
		}
		w.bus.Publish(events.MechanicUpdated, repair.MechanicID.Hex())
	}
	if len(w.repairs.FindOpenRepairsByTruck(ctx, repair.TruckID)) == 0 {
		if err := w.trucks.UpdateTruckStatus(ctx, repair.TruckID.Hex(), models.TruckOperational); err != nil {
			return err
		}
		w.bus.Publish(events.TruckUpdated, repair.TruckID.Hex())
	}

	w.bus.Publish(events.RepairUpdated, repairID)
	return nil
}

// ReopenRepair moves a terminal repair back into the open flow, pulling
// the truck back into the in-repair state and re-busying the mechanic
// when one is still assigned.
func (w *StatusSyncWorkflow) ReopenRepair(ctx context.Context, repairID string) error {
	repair, err := w.repairs.FindRepairByID(ctx, repairID)
	if err != nil {
		return err
	}
	if !repair.Reopen() {
		return ErrInvalidTransition
	}
	if err := w.repairs.UpdateRepair(ctx, repairID, *repair); err != nil {
		return err
	}
	if err := w.trucks.UpdateTruckStatus(ctx, repair.TruckID.Hex(), models.TruckInRepair); err != nil {
		return err
	}
	if repair.MechanicID != nil {
		if err := w.mechanics.UpdateMechanicActivity(ctx, repair.MechanicID.Hex(), models.ActivityInRepair); err != nil {
			return err
		}
		w.bus.Publish(events.MechanicUpdated, repair.MechanicID.Hex())
	}

	w.bus.Publish(events.RepairUpdated, repairID)
	w.bus.Publish(events.TruckUpdated, repair.TruckID.Hex())
	return nil
}
