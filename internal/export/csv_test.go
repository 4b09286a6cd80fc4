package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCSVExporter_Render(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"a", "b"},
		Rows: []map[string]string{
			{"a": "1", "b": "2"},
			{"a": "3"},
		},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b"}, records[0])
	assert.Equal(t, []string{"1", "2"}, records[1])
	assert.Equal(t, []string{"3", ""}, records[2], "missing cells render empty")
}

func TestCSVExporter_Render_NoHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestTruckDataset(t *testing.T) {
	trucks := []models.Truck{
		{Plate: "ABC-1234", Model: "Volvo FH16", Year: 2019, Status: models.TruckOperational, RegisteredAt: time.Now()},
	}
	ds := TruckDataset(trucks)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "ABC-1234", ds.Rows[0]["plate"])
	assert.Equal(t, "2019", ds.Rows[0]["year"])
	assert.Equal(t, "operational", ds.Rows[0]["status"])
}

func TestRepairDataset_OptionalFields(t *testing.T) {
	mechID := primitive.NewObjectID()
	exit := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	repairs := []models.Repair{
		{
			TruckID: primitive.NewObjectID(), FaultID: "F-001", Status: models.RepairWaiting,
			EntryDate: time.Now(), Cost: 0,
		},
		{
			TruckID: primitive.NewObjectID(), MechanicID: &mechID, FaultID: "F-002",
			Status: models.RepairRepaired, EntryDate: time.Now(), ExitDate: &exit, Cost: 350.5,
		},
	}

	ds := RepairDataset(repairs)
	require.Len(t, ds.Rows, 2)
	assert.Empty(t, ds.Rows[0]["mechanic_id"])
	assert.Empty(t, ds.Rows[0]["exit_date"])
	assert.Equal(t, mechID.Hex(), ds.Rows[1]["mechanic_id"])
	assert.Equal(t, "2025-03-10 14:30", ds.Rows[1]["exit_date"])
	assert.Equal(t, "350.50", ds.Rows[1]["cost"])
}

func TestRoundtripThroughExporter(t *testing.T) {
	tasks := []models.PreventiveTask{
		{Plate: "AAA-1111", Model: "Scania R450", Type: models.PreventiveOilChange, Status: models.PreventiveScheduled, Urgency: models.UrgencyHigh, RegisteredAt: time.Now()},
	}
	out, err := NewCSVExporter().Render(PreventiveDataset(tasks))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "oil_change", records[1][2])
	assert.Equal(t, "high", records[1][4])
}
