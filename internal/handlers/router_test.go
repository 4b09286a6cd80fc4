package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/config"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/events"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"github.com/ukydev/fleet-maintenance/internal/workflow"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubTruckStore struct {
	trucks []models.Truck
}

func (s *stubTruckStore) InsertTruck(_ context.Context, t *models.Truck) error {
	t.ID = primitive.NewObjectID()
	s.trucks = append(s.trucks, *t)
	return nil
}

func (s *stubTruckStore) FindTruckByID(_ context.Context, id string) (*models.Truck, error) {
	for _, t := range s.trucks {
		if t.ID.Hex() == id {
			return &t, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubTruckStore) FindTruckByPlate(_ context.Context, plate string) (*models.Truck, error) {
	for _, t := range s.trucks {
		if strings.EqualFold(t.Plate, plate) {
			return &t, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubTruckStore) FindTrucks(context.Context, db.TruckFilter) []models.Truck {
	return s.trucks
}

func (s *stubTruckStore) UpdateTruck(context.Context, string, models.Truck) error { return nil }

func (s *stubTruckStore) UpdateTruckStatus(_ context.Context, id string, status models.TruckStatus) error {
	for i := range s.trucks {
		if s.trucks[i].ID.Hex() == id {
			s.trucks[i].Status = status
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *stubTruckStore) DeleteTruck(context.Context, string) error { return nil }

func (s *stubTruckStore) TruckStats(context.Context) (*db.TruckStats, error) {
	return &db.TruckStats{Total: int64(len(s.trucks))}, nil
}

type stubUserStore struct {
	users map[string]*models.User
}

func (s *stubUserStore) InsertUser(_ context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	u.Active = true
	copied := *u
	s.users[u.Username] = &copied
	return nil
}

func (s *stubUserStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *stubUserStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, db.ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) FindUsers(context.Context) []models.User           { return nil }
func (s *stubUserStore) UpdateUser(context.Context, string, models.User) error { return nil }
func (s *stubUserStore) UpdatePassword(context.Context, string, string) error  { return nil }
func (s *stubUserStore) SetActive(context.Context, string, bool) error         { return nil }
func (s *stubUserStore) DeleteUser(context.Context, string) error              { return nil }
func (s *stubUserStore) HasAdmin(context.Context) (bool, error)                { return true, nil }

func testRouter(t *testing.T) (*gin.Engine, *auth.Service, *stubTruckStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	truckStore := &stubTruckStore{}
	userStore := &stubUserStore{users: make(map[string]*models.User)}
	stores := &db.Stores{Trucks: truckStore, Users: userStore}

	authSvc := auth.NewService(&config.Config{JWTSecret: "test-secret", JWTExpiration: time.Hour}, userStore)
	wf := workflow.NewStatusSyncWorkflow(stores, events.NewBus())

	return NewRouter(stores, authSvc, wf), authSvc, truckStore
}

func tokenFor(t *testing.T, svc *auth.Service, role models.Role) string {
	t.Helper()
	token, err := svc.GenerateToken(&models.User{
		ID:       primitive.NewObjectID(),
		Username: "tester",
		Role:     role,
	})
	require.NoError(t, err)
	return token
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router, _, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_APIRequiresToken(t *testing.T) {
	router, _, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/trucks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ListTrucksWithToken(t *testing.T) {
	router, authSvc, truckStore := testRouter(t)
	require.NoError(t, truckStore.InsertTruck(context.Background(), &models.Truck{
		Plate: "ABC-1234", Model: "Volvo FH16", Year: 2020, Status: models.TruckOperational,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/trucks", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, authSvc, models.RoleMechanic))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var trucks []models.Truck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trucks))
	require.Len(t, trucks, 1)
	assert.Equal(t, "ABC-1234", trucks[0].Plate)
}

func TestRouter_MechanicCannotDelete(t *testing.T) {
	router, authSvc, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/trucks/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, authSvc, models.RoleMechanic))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_SupervisorCannotManageUsers(t *testing.T) {
	router, authSvc, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, authSvc, models.RoleSupervisor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_Login(t *testing.T) {
	router, authSvc, _ := testRouter(t)
	require.NoError(t, authSvc.EnsureAdmin(context.Background()))

	body := strings.NewReader(`{"username":"admin","password":"admin"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	// Wrong password
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_TruckExportCSV(t *testing.T) {
	router, authSvc, truckStore := testRouter(t)
	require.NoError(t, truckStore.InsertTruck(context.Background(), &models.Truck{
		Plate: "CSV-0001", Model: "Scania R450", Year: 2021, Status: models.TruckOperational,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/trucks/export.csv", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, authSvc, models.RoleSupervisor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "CSV-0001")
}
