package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

func seedMechanics(t *testing.T, store *MongoMechanicStore) []*models.Mechanic {
	t.Helper()
	ctx := context.Background()
	seed := []*models.Mechanic{
		{FirstName: "Carlos", LastName: "Martinez", Activity: models.ActivityNone},
		{FirstName: "Ana", LastName: "Lopez", Activity: models.ActivityInRepair},
		{FirstName: "Martin", LastName: "Silva", Activity: models.ActivityDiagnosis},
	}
	for _, m := range seed {
		require.NoError(t, store.InsertMechanic(ctx, m))
	}
	return seed
}

func TestMongoMechanicStore_InsertMechanic_Duplicate(t *testing.T) {
	store := &MongoMechanicStore{Collection: testCollection(t, "mechanics")}
	ctx := context.Background()

	first := &models.Mechanic{FirstName: "Carlos", LastName: "Martinez"}
	require.NoError(t, store.InsertMechanic(ctx, first))
	assert.Equal(t, models.ActivityNone, first.Activity, "activity defaults to none")

	second := &models.Mechanic{FirstName: "Carlos", LastName: "Martinez"}
	assert.ErrorIs(t, store.InsertMechanic(ctx, second), ErrDuplicateMechanic)
}

func TestMongoMechanicStore_FindMechanics_NameMatchesEitherName(t *testing.T) {
	store := &MongoMechanicStore{Collection: testCollection(t, "mechanics")}
	seedMechanics(t, store)
	ctx := context.Background()

	// "mart" hits Martinez (last name) and Martin (first name)
	matched := store.FindMechanics(ctx, MechanicFilter{Name: "mart"})
	assert.Len(t, matched, 2)

	busy := store.FindMechanics(ctx, MechanicFilter{Activity: models.ActivityInRepair})
	require.Len(t, busy, 1)
	assert.Equal(t, "Ana Lopez", busy[0].FullName())
}

func TestMongoMechanicStore_FindAvailableMechanics(t *testing.T) {
	store := &MongoMechanicStore{Collection: testCollection(t, "mechanics")}
	seedMechanics(t, store)

	available := store.FindAvailableMechanics(context.Background())
	require.Len(t, available, 1)
	assert.Equal(t, "Carlos Martinez", available[0].FullName())
}

func TestMongoMechanicStore_UpdateMechanicActivity(t *testing.T) {
	store := &MongoMechanicStore{Collection: testCollection(t, "mechanics")}
	ctx := context.Background()

	mech := &models.Mechanic{FirstName: "Ana", LastName: "Lopez", Activity: models.ActivityInRepair}
	require.NoError(t, store.InsertMechanic(ctx, mech))

	require.NoError(t, store.UpdateMechanicActivity(ctx, mech.ID.Hex(), models.ActivityNone))

	found, err := store.FindMechanicByID(ctx, mech.ID.Hex())
	require.NoError(t, err)
	assert.True(t, found.IsAvailable())
}

func TestMongoMechanicStore_MechanicStats(t *testing.T) {
	store := &MongoMechanicStore{Collection: testCollection(t, "mechanics")}
	seedMechanics(t, store)

	stats, err := store.MechanicStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(2), stats.Busy)
	assert.Equal(t, int64(1), stats.InRepair)
	assert.Equal(t, int64(1), stats.Diagnosis)
}
