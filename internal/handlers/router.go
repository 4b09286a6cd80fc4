package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/export"
	"github.com/ukydev/fleet-maintenance/internal/middleware"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"github.com/ukydev/fleet-maintenance/internal/workflow"
)

// NewRouter wires all HTTP routes. Reads are open to every
// authenticated role, repair and preventive updates include mechanics,
// record management needs a supervisor, and deletes plus user
// management are admin only.
func NewRouter(stores *db.Stores, authSvc *auth.Service, wf *workflow.StatusSyncWorkflow) *gin.Engine {
	exporter := export.NewCSVExporter()

	authHandler := &AuthHandler{Auth: authSvc}
	trucks := &TruckHandler{Trucks: stores.Trucks, Workflow: wf, Exporter: exporter}
	mechanics := &MechanicHandler{Mechanics: stores.Mechanics, Exporter: exporter}
	repairs := &RepairHandler{Repairs: stores.Repairs, Workflow: wf, Exporter: exporter}
	preventives := &PreventiveHandler{Preventives: stores.Preventives, Trucks: stores.Trucks, Workflow: wf, Exporter: exporter}
	users := &UserHandler{Users: stores.Users, Auth: authSvc}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/auth/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.Authenticate(authSvc))

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	manage := middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor)
	repairWork := middleware.RequireRole(models.RoleAdmin, models.RoleSupervisor, models.RoleMechanic)

	t := api.Group("/trucks")
	{
		t.GET("", trucks.ListTrucks)
		t.GET("/search", trucks.ListTrucks)
		t.GET("/stats", trucks.TruckStats)
		t.GET("/export.csv", trucks.ExportTrucks)
		t.GET("/:id", trucks.GetTruck)
		t.POST("", manage, trucks.CreateTruck)
		t.PUT("/:id", manage, trucks.UpdateTruck)
		t.PUT("/:id/status", repairWork, trucks.ChangeTruckStatus)
		t.DELETE("/:id", adminOnly, trucks.DeleteTruck)
	}

	m := api.Group("/mechanics")
	{
		m.GET("", mechanics.ListMechanics)
		m.GET("/search", mechanics.ListMechanics)
		m.GET("/available", mechanics.ListAvailableMechanics)
		m.GET("/stats", mechanics.MechanicStats)
		m.GET("/export.csv", mechanics.ExportMechanics)
		m.GET("/:id", mechanics.GetMechanic)
		m.POST("", manage, mechanics.CreateMechanic)
		m.PUT("/:id", manage, mechanics.UpdateMechanic)
		m.DELETE("/:id", adminOnly, mechanics.DeleteMechanic)
	}

	r := api.Group("/repairs")
	{
		r.GET("", repairs.ListRepairs)
		r.GET("/search", repairs.ListRepairs)
		r.GET("/stats", repairs.RepairStats)
		r.GET("/export.csv", repairs.ExportRepairs)
		r.GET("/:id", repairs.GetRepair)
		r.POST("", repairWork, repairs.CreateRepair)
		r.PUT("/:id/assign-mechanic", repairWork, repairs.AssignMechanic)
		r.PUT("/:id/complete", repairWork, repairs.CompleteRepair)
		r.PUT("/:id/cancel", repairWork, repairs.CancelRepair)
		r.PUT("/:id/reopen", repairWork, repairs.ReopenRepair)
		r.DELETE("/:id", adminOnly, repairs.DeleteRepair)
	}

	p := api.Group("/preventives")
	{
		p.GET("", preventives.ListPreventives)
		p.GET("/search", preventives.ListPreventives)
		p.GET("/stats", preventives.PreventiveStats)
		p.GET("/export.csv", preventives.ExportPreventives)
		p.GET("/:id", preventives.GetPreventive)
		p.POST("", manage, preventives.CreatePreventive)
		p.PUT("/:id", manage, preventives.UpdatePreventive)
		p.PUT("/:id/status", repairWork, preventives.ChangePreventiveStatus)
		p.DELETE("/:id", adminOnly, preventives.DeletePreventive)
	}

	u := api.Group("/users", adminOnly)
	{
		u.GET("", users.ListUsers)
		u.GET("/:id", users.GetUser)
		u.POST("", users.CreateUser)
		u.PUT("/:id", users.UpdateUser)
		u.PUT("/:id/password", users.ChangePassword)
		u.PUT("/:id/active", users.SetActive)
		u.DELETE("/:id", users.DeleteUser)
	}

	return router
}
