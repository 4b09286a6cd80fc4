package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

// UserHandler serves user management. All routes are admin-gated by the
// router.
type UserHandler struct {
	Users db.UserStore
	Auth  *auth.Service
}

type createUserPayload struct {
	Username  string      `json:"username" binding:"required"`
	Password  string      `json:"password" binding:"required"`
	Role      models.Role `json:"role" binding:"required"`
	FirstName string      `json:"first_name,omitempty"`
	LastName  string      `json:"last_name,omitempty"`
}

type changePasswordPayload struct {
	Password string `json:"password" binding:"required"`
}

type setActivePayload struct {
	Active *bool `json:"active" binding:"required"`
}

// CreateUser registers a new application user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var payload createUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidRole(payload.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if err := h.Auth.ValidateUsername(payload.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Auth.ValidatePassword(payload.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := h.Auth.HashPassword(payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	user := &models.User{
		Username:     payload.Username,
		PasswordHash: hash,
		Role:         payload.Role,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
	}
	if err := h.Users.InsertUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers returns every user.
func (h *UserHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Users.FindUsers(c.Request.Context()))
}

// GetUser returns one user by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Users.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser replaces a user record. The stored password is kept.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidRole(user.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	user.PasswordHash = ""
	if err := h.Users.UpdateUser(c.Request.Context(), c.Param("id"), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// ChangePassword sets a new password for a user.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Auth.ValidatePassword(payload.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := h.Auth.HashPassword(payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Users.UpdatePassword(c.Request.Context(), c.Param("id"), hash); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// SetActive enables or disables a user account.
func (h *UserHandler) SetActive(c *gin.Context) {
	var payload setActivePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Users.SetActive(c.Request.Context(), c.Param("id"), *payload.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteUser removes a user account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.Users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
