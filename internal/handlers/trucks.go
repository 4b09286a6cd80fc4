package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/export"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"github.com/ukydev/fleet-maintenance/internal/workflow"
)

// TruckHandler serves truck CRUD, search, stats and export.
type TruckHandler struct {
	Trucks   db.TruckStore
	Workflow *workflow.StatusSyncWorkflow
	Exporter *export.CSVExporter
}

func validateTruckYear(year int) error {
	if year < 1950 || year > time.Now().Year()+1 {
		return errors.New("truck year is out of range")
	}
	return nil
}

type createTruckPayload struct {
	Plate  string             `json:"plate" binding:"required"`
	Model  string             `json:"model" binding:"required"`
	Year   int                `json:"year" binding:"required"`
	Status models.TruckStatus `json:"status,omitempty"`
}

type changeTruckStatusPayload struct {
	Status models.TruckStatus    `json:"status" binding:"required"`
	Repair *workflow.RepairDraft `json:"repair,omitempty"`
}

// CreateTruck registers a new truck.
func (h *TruckHandler) CreateTruck(c *gin.Context) {
	var payload createTruckPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := payload.Status
	if status == "" {
		status = models.TruckOperational
	}
	if !models.IsValidTruckStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid truck status"})
		return
	}
	if err := validateTruckYear(payload.Year); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	truck := &models.Truck{
		Plate:  payload.Plate,
		Model:  payload.Model,
		Year:   payload.Year,
		Status: status,
	}
	if err := h.Trucks.InsertTruck(c.Request.Context(), truck); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, truck)
}

// ListTrucks returns trucks matching the optional query filters.
func (h *TruckHandler) ListTrucks(c *gin.Context) {
	filter := db.TruckFilter{
		Plate:  c.Query("plate"),
		Model:  c.Query("model"),
		Status: models.TruckStatus(c.Query("status")),
	}
	if year := c.Query("year"); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		filter.Year = parsed
	}
	c.JSON(http.StatusOK, h.Trucks.FindTrucks(c.Request.Context(), filter))
}

// GetTruck returns one truck by id.
func (h *TruckHandler) GetTruck(c *gin.Context) {
	truck, err := h.Trucks.FindTruckByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, truck)
}

// UpdateTruck replaces a truck record.
func (h *TruckHandler) UpdateTruck(c *gin.Context) {
	var truck models.Truck
	if err := c.ShouldBindJSON(&truck); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidTruckStatus(truck.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid truck status"})
		return
	}
	if err := validateTruckYear(truck.Year); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Trucks.UpdateTruck(c.Request.Context(), c.Param("id"), truck); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ChangeTruckStatus runs the status change through the sync workflow.
func (h *TruckHandler) ChangeTruckStatus(c *gin.Context) {
	var payload changeTruckStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.Workflow.ChangeTruckStatus(c.Request.Context(), c.Param("id"), payload.Status, payload.Repair)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteTruck removes a truck.
func (h *TruckHandler) DeleteTruck(c *gin.Context) {
	if err := h.Trucks.DeleteTruck(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// TruckStats returns fleet statistics.
func (h *TruckHandler) TruckStats(c *gin.Context) {
	stats, err := h.Trucks.TruckStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportTrucks streams the current truck list as CSV.
func (h *TruckHandler) ExportTrucks(c *gin.Context) {
	trucks := h.Trucks.FindTrucks(c.Request.Context(), db.TruckFilter{})
	data, err := h.Exporter.Render(export.TruckDataset(trucks))
	if err != nil {
		respondError(c, err)
		return
	}
	serveCSV(c, "trucks.csv", data)
}
