package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/export"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// MechanicHandler serves mechanic CRUD, search, stats and export.
type MechanicHandler struct {
	Mechanics db.MechanicStore
	Exporter  *export.CSVExporter
}

type createMechanicPayload struct {
	FirstName string                  `json:"first_name" binding:"required"`
	LastName  string                  `json:"last_name" binding:"required"`
	Activity  models.MechanicActivity `json:"activity,omitempty"`
}

// CreateMechanic registers a new mechanic.
func (h *MechanicHandler) CreateMechanic(c *gin.Context) {
	var payload createMechanicPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.Activity != "" && !models.IsValidActivity(payload.Activity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mechanic activity"})
		return
	}

	mechanic := &models.Mechanic{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Activity:  payload.Activity,
	}
	if err := h.Mechanics.InsertMechanic(c.Request.Context(), mechanic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mechanic)
}

// ListMechanics returns mechanics matching the optional query filters.
func (h *MechanicHandler) ListMechanics(c *gin.Context) {
	filter := db.MechanicFilter{
		Name:     c.Query("name"),
		Activity: models.MechanicActivity(c.Query("activity")),
	}
	c.JSON(http.StatusOK, h.Mechanics.FindMechanics(c.Request.Context(), filter))
}

// ListAvailableMechanics returns mechanics with no assigned activity.
func (h *MechanicHandler) ListAvailableMechanics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Mechanics.FindAvailableMechanics(c.Request.Context()))
}

// GetMechanic returns one mechanic by id.
func (h *MechanicHandler) GetMechanic(c *gin.Context) {
	mechanic, err := h.Mechanics.FindMechanicByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mechanic)
}

// UpdateMechanic replaces a mechanic record.
func (h *MechanicHandler) UpdateMechanic(c *gin.Context) {
	var mechanic models.Mechanic
	if err := c.ShouldBindJSON(&mechanic); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidActivity(mechanic.Activity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mechanic activity"})
		return
	}
	if err := h.Mechanics.UpdateMechanic(c.Request.Context(), c.Param("id"), mechanic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteMechanic removes a mechanic.
func (h *MechanicHandler) DeleteMechanic(c *gin.Context) {
	if err := h.Mechanics.DeleteMechanic(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// MechanicStats returns workshop staff statistics.
func (h *MechanicHandler) MechanicStats(c *gin.Context) {
	stats, err := h.Mechanics.MechanicStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportMechanics streams the current mechanic list as CSV.
func (h *MechanicHandler) ExportMechanics(c *gin.Context) {
	mechanics := h.Mechanics.FindMechanics(c.Request.Context(), db.MechanicFilter{})
	data, err := h.Exporter.Render(export.MechanicDataset(mechanics))
	if err != nil {
		respondError(c, err)
		return
	}
	serveCSV(c, "mechanics.csv", data)
}
