package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

func TestMongoPreventiveStore_InsertAndSearch(t *testing.T) {
	store := &MongoPreventiveStore{Collection: testCollection(t, "preventives")}
	ctx := context.Background()

	seed := []*models.PreventiveTask{
		{Plate: "AAA-1111", Model: "Volvo FH16", Type: models.PreventiveOilChange, Urgency: models.UrgencyHigh},
		{Plate: "AAA-1111", Model: "Volvo FH16", Type: models.PreventiveBrakes, Urgency: models.UrgencyMedium},
		{Plate: "BBB-2222", Model: "Scania R450", Type: models.PreventiveOilChange, Urgency: models.UrgencyLow},
	}
	for _, task := range seed {
		require.NoError(t, store.InsertPreventive(ctx, task))
		assert.Equal(t, models.PreventiveScheduled, task.Status, "status defaults to scheduled")
	}

	byPlate := store.FindPreventivesByPlate(ctx, "aaa-1111")
	assert.Len(t, byPlate, 2)

	oilChanges := store.FindPreventives(ctx, PreventiveFilter{Type: models.PreventiveOilChange})
	assert.Len(t, oilChanges, 2)

	urgent := store.FindPreventives(ctx, PreventiveFilter{Urgency: models.UrgencyHigh})
	require.Len(t, urgent, 1)
	assert.Equal(t, models.PreventiveOilChange, urgent[0].Type)
}

func TestMongoPreventiveStore_UpdatePreventiveStatus(t *testing.T) {
	store := &MongoPreventiveStore{Collection: testCollection(t, "preventives")}
	ctx := context.Background()

	task := &models.PreventiveTask{Plate: "CCC-3333", Model: "DAF XF", Type: models.PreventiveEngine, Urgency: models.UrgencyHigh}
	require.NoError(t, store.InsertPreventive(ctx, task))

	require.NoError(t, store.UpdatePreventiveStatus(ctx, task.ID.Hex(), models.PreventiveInRepair))

	found, err := store.FindPreventiveByID(ctx, task.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.PreventiveInRepair, found.Status)
	require.NotNil(t, found.LastRepairUpdate, "repair workflow touch is recorded")
}

func TestMongoPreventiveStore_PreventiveStats(t *testing.T) {
	store := &MongoPreventiveStore{Collection: testCollection(t, "preventives")}
	ctx := context.Background()

	seed := []*models.PreventiveTask{
		{Plate: "S-1", Model: "M", Type: models.PreventiveGeneral, Urgency: models.UrgencyHigh, Status: models.PreventiveScheduled},
		{Plate: "S-2", Model: "M", Type: models.PreventiveGeneral, Urgency: models.UrgencyLow, Status: models.PreventiveCompleted},
		{Plate: "S-3", Model: "M", Type: models.PreventiveGeneral, Urgency: models.UrgencyHigh, Status: models.PreventiveCancelled},
	}
	for _, task := range seed {
		require.NoError(t, store.InsertPreventive(ctx, task))
	}

	stats, err := store.PreventiveStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Scheduled)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(1), stats.Urgent, "cancelled high-urgency tasks are not counted")
}
