package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/export"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"github.com/ukydev/fleet-maintenance/internal/workflow"
)

// PreventiveHandler serves preventive task CRUD, search, stats and
// export. Status changes go through the sync workflow.
type PreventiveHandler struct {
	Preventives db.PreventiveStore
	Trucks      db.TruckStore
	Workflow    *workflow.StatusSyncWorkflow
	Exporter    *export.CSVExporter
}

type createPreventivePayload struct {
	Plate   string                `json:"plate" binding:"required"`
	Type    models.PreventiveType `json:"type" binding:"required"`
	Urgency models.Urgency        `json:"urgency" binding:"required"`
}

type changePreventiveStatusPayload struct {
	Status models.PreventiveStatus `json:"status" binding:"required"`
	Repair *workflow.RepairDraft   `json:"repair,omitempty"`
}

// CreatePreventive schedules a preventive task for a registered truck.
// The truck's model is denormalized onto the task at creation time.
func (h *PreventiveHandler) CreatePreventive(c *gin.Context) {
	var payload createPreventivePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidPreventiveType(payload.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preventive type"})
		return
	}
	if !models.IsValidUrgency(payload.Urgency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid urgency"})
		return
	}

	truck, err := h.Trucks.FindTruckByPlate(c.Request.Context(), payload.Plate)
	if err != nil {
		respondError(c, err)
		return
	}

	task := &models.PreventiveTask{
		Plate:   truck.Plate,
		Model:   truck.Model,
		Type:    payload.Type,
		Urgency: payload.Urgency,
		Status:  models.PreventiveScheduled,
	}
	if err := h.Preventives.InsertPreventive(c.Request.Context(), task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// ListPreventives returns tasks matching the optional query filters.
func (h *PreventiveHandler) ListPreventives(c *gin.Context) {
	filter := db.PreventiveFilter{
		Plate:   c.Query("plate"),
		Model:   c.Query("model"),
		Type:    models.PreventiveType(c.Query("type")),
		Status:  models.PreventiveStatus(c.Query("status")),
		Urgency: models.Urgency(c.Query("urgency")),
	}
	c.JSON(http.StatusOK, h.Preventives.FindPreventives(c.Request.Context(), filter))
}

// GetPreventive returns one task by id.
func (h *PreventiveHandler) GetPreventive(c *gin.Context) {
	task, err := h.Preventives.FindPreventiveByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdatePreventive replaces a task record.
func (h *PreventiveHandler) UpdatePreventive(c *gin.Context) {
	var task models.PreventiveTask
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidPreventiveStatus(task.Status) || !models.IsValidPreventiveType(task.Type) || !models.IsValidUrgency(task.Urgency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preventive task fields"})
		return
	}
	if err := h.Preventives.UpdatePreventive(c.Request.Context(), c.Param("id"), task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ChangePreventiveStatus runs the status change through the workflow.
func (h *PreventiveHandler) ChangePreventiveStatus(c *gin.Context) {
	var payload changePreventiveStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.Workflow.ChangePreventiveStatus(c.Request.Context(), c.Param("id"), payload.Status, payload.Repair)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeletePreventive removes a task.
func (h *PreventiveHandler) DeletePreventive(c *gin.Context) {
	if err := h.Preventives.DeletePreventive(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// PreventiveStats returns scheduled maintenance statistics.
func (h *PreventiveHandler) PreventiveStats(c *gin.Context) {
	stats, err := h.Preventives.PreventiveStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportPreventives streams the current task list as CSV.
func (h *PreventiveHandler) ExportPreventives(c *gin.Context) {
	tasks := h.Preventives.FindPreventives(c.Request.Context(), db.PreventiveFilter{})
	data, err := h.Exporter.Render(export.PreventiveDataset(tasks))
	if err != nil {
		respondError(c, err)
		return
	}
	serveCSV(c, "preventives.csv", data)
}
