package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/export"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"github.com/ukydev/fleet-maintenance/internal/workflow"
)

const dateQueryFormat = "2006-01-02"

// RepairHandler serves repair registration, lifecycle operations,
// search, stats and export. Mutations that touch other entities go
// through the sync workflow.
type RepairHandler struct {
	Repairs  db.RepairStore
	Workflow *workflow.StatusSyncWorkflow
	Exporter *export.CSVExporter
}

type assignMechanicPayload struct {
	MechanicID string `json:"mechanic_id" binding:"required"`
}

type completeRepairPayload struct {
	Cost  *float64 `json:"cost,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

type cancelRepairPayload struct {
	Reason string `json:"reason,omitempty"`
}

// CreateRepair opens a repair through the workflow.
func (h *RepairHandler) CreateRepair(c *gin.Context) {
	var draft workflow.RepairDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if draft.TruckID == "" || draft.FaultReason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "truck_id and fault_reason are required"})
		return
	}

	repair, err := h.Workflow.RegisterRepair(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, repair)
}

// ListRepairs returns repairs matching the optional query filters.
func (h *RepairHandler) ListRepairs(c *gin.Context) {
	filter := db.RepairFilter{
		FaultID:     c.Query("fault_id"),
		FaultReason: c.Query("fault_reason"),
		Description: c.Query("description"),
		Status:      models.RepairStatus(c.Query("status")),
		TruckID:     c.Query("truck_id"),
		MechanicID:  c.Query("mechanic_id"),
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(dateQueryFormat, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, want YYYY-MM-DD"})
			return
		}
		filter.EntryFrom = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(dateQueryFormat, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, want YYYY-MM-DD"})
			return
		}
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		filter.EntryTo = &end
	}
	c.JSON(http.StatusOK, h.Repairs.FindRepairs(c.Request.Context(), filter))
}

// GetRepair returns one repair by id.
func (h *RepairHandler) GetRepair(c *gin.Context) {
	repair, err := h.Repairs.FindRepairByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

// AssignMechanic assigns a mechanic to the repair through the workflow.
func (h *RepairHandler) AssignMechanic(c *gin.Context) {
	var payload assignMechanicPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Workflow.AssignMechanic(c.Request.Context(), c.Param("id"), payload.MechanicID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// CompleteRepair marks the repair as repaired through the workflow.
func (h *RepairHandler) CompleteRepair(c *gin.Context) {
	var payload completeRepairPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Workflow.CompleteRepair(c.Request.Context(), c.Param("id"), payload.Cost, payload.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// CancelRepair cancels the repair through the workflow.
func (h *RepairHandler) CancelRepair(c *gin.Context) {
	var payload cancelRepairPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Workflow.CancelRepair(c.Request.Context(), c.Param("id"), payload.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ReopenRepair reopens a terminal repair through the workflow.
func (h *RepairHandler) ReopenRepair(c *gin.Context) {
	if err := h.Workflow.ReopenRepair(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteRepair removes a repair record.
func (h *RepairHandler) DeleteRepair(c *gin.Context) {
	if err := h.Repairs.DeleteRepair(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// RepairStats returns repair history statistics.
func (h *RepairHandler) RepairStats(c *gin.Context) {
	stats, err := h.Repairs.RepairStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportRepairs streams the current repair list as CSV.
func (h *RepairHandler) ExportRepairs(c *gin.Context) {
	repairs := h.Repairs.FindRepairs(c.Request.Context(), db.RepairFilter{})
	data, err := h.Exporter.Render(export.RepairDataset(repairs))
	if err != nil {
		respondError(c, err)
		return
	}
	serveCSV(c, "repairs.csv", data)
}
