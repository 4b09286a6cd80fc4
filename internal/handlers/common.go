package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/workflow"
)

// respondError maps domain errors onto HTTP statuses. Anything not
// recognized is a 500 and gets logged.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrDuplicatePlate),
		errors.Is(err, db.ErrDuplicateUsername),
		errors.Is(err, db.ErrDuplicateMechanic):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrRepairRequired),
		errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUserInactive):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Unhandled request error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// serveCSV writes rendered CSV bytes as a file download.
func serveCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}
