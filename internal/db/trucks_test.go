package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

func TestMongoTruckStore_InsertTruck(t *testing.T) {
	store := &MongoTruckStore{Collection: testCollection(t, "trucks")}

	truck := &models.Truck{
		Plate:  "ABC-1234",
		Model:  "Volvo FH16",
		Year:   2019,
		Status: models.TruckOperational,
	}
	err := store.InsertTruck(context.Background(), truck)
	require.NoError(t, err)
	assert.False(t, truck.ID.IsZero())
	assert.NotZero(t, truck.RegisteredAt)

	found, err := store.FindTruckByID(context.Background(), truck.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "ABC-1234", found.Plate)
	assert.Equal(t, models.TruckOperational, found.Status)
}

func TestMongoTruckStore_InsertTruck_DuplicatePlate(t *testing.T) {
	store := &MongoTruckStore{Collection: testCollection(t, "trucks")}

	first := &models.Truck{Plate: "DUP-0001", Model: "Scania R450", Year: 2020, Status: models.TruckOperational}
	require.NoError(t, store.InsertTruck(context.Background(), first))

	second := &models.Truck{Plate: "DUP-0001", Model: "MAN TGX", Year: 2021, Status: models.TruckOperational}
	err := store.InsertTruck(context.Background(), second)
	assert.ErrorIs(t, err, ErrDuplicatePlate)

	trucks := store.FindTrucks(context.Background(), TruckFilter{Plate: "DUP-0001"})
	assert.Len(t, trucks, 1)
}

func TestMongoTruckStore_FindTrucks_Filter(t *testing.T) {
	store := &MongoTruckStore{Collection: testCollection(t, "trucks")}
	ctx := context.Background()

	seed := []*models.Truck{
		{Plate: "AAA-1111", Model: "Volvo FH16", Year: 2018, Status: models.TruckOperational},
		{Plate: "BBB-2222", Model: "Volvo FM", Year: 2020, Status: models.TruckInRepair},
		{Plate: "CCC-3333", Model: "Scania R450", Year: 2020, Status: models.TruckOperational},
	}
	for _, tr := range seed {
		require.NoError(t, store.InsertTruck(ctx, tr))
	}

	// Case-insensitive substring match on model and plate
	volvos := store.FindTrucks(ctx, TruckFilter{Model: "volvo"})
	assert.Len(t, volvos, 2)

	byPlate := store.FindTrucks(ctx, TruckFilter{Plate: "bb"})
	require.Len(t, byPlate, 1)
	assert.Equal(t, "BBB-2222", byPlate[0].Plate)

	// Exact status
	inRepair := store.FindTrucks(ctx, TruckFilter{Status: models.TruckInRepair})
	require.Len(t, inRepair, 1)
	assert.Equal(t, "BBB-2222", inRepair[0].Plate)

	// Combined filter
	matched := store.FindTrucks(ctx, TruckFilter{Model: "VOLVO", Year: 2020})
	require.Len(t, matched, 1)
	assert.Equal(t, "BBB-2222", matched[0].Plate)

	// No matches is an empty slice, not nil
	none := store.FindTrucks(ctx, TruckFilter{Plate: "ZZZ"})
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMongoTruckStore_FindTruckByPlate(t *testing.T) {
	store := &MongoTruckStore{Collection: testCollection(t, "trucks")}
	ctx := context.Background()

	truck := &models.Truck{Plate: "XYZ-9876", Model: "DAF XF", Year: 2022, Status: models.TruckOperational}
	require.NoError(t, store.InsertTruck(ctx, truck))

	found, err := store.FindTruckByPlate(ctx, "xyz-9876")
	require.NoError(t, err)
	assert.Equal(t, truck.ID, found.ID)

	_, err = store.FindTruckByPlate(ctx, "NOPE-000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoTruckStore_UpdateTruckStatus(t *testing.T) {
	store := &MongoTruckStore{Collection: testCollection(t, "trucks")}
	ctx := context.Background()

	truck := &models.Truck{Plate: "STA-0001", Model: "Iveco S-Way", Year: 2021, Status: models.TruckOperational}
	require.NoError(t, store.InsertTruck(ctx, truck))

	err := store.UpdateTruckStatus(ctx, truck.ID.Hex(), models.TruckInRepair)
	require.NoError(t, err)

	found, err := store.FindTruckByID(ctx, truck.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.TruckInRepair, found.Status)
	assert.True(t, found.UpdatedAt.After(truck.UpdatedAt))

	// Unknown and malformed ids map to ErrNotFound
	assert.ErrorIs(t, store.UpdateTruckStatus(ctx, "64b0c0ffee0000000000dead", models.TruckOperational), ErrNotFound)
	assert.ErrorIs(t, store.UpdateTruckStatus(ctx, "not-an-id", models.TruckOperational), ErrNotFound)
}

func TestMongoTruckStore_DeleteTruck(t *testing.T) {
	store := &MongoTruckStore{Collection: testCollection(t, "trucks")}
	ctx := context.Background()

	truck := &models.Truck{Plate: "DEL-0001", Model: "Renault T", Year: 2017, Status: models.TruckOutOfService}
	require.NoError(t, store.InsertTruck(ctx, truck))

	require.NoError(t, store.DeleteTruck(ctx, truck.ID.Hex()))

	_, err := store.FindTruckByID(ctx, truck.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteTruck(ctx, truck.ID.Hex()), ErrNotFound)
}

func TestMongoTruckStore_TruckStats(t *testing.T) {
	store := &MongoTruckStore{Collection: testCollection(t, "trucks")}
	ctx := context.Background()

	seed := []*models.Truck{
		{Plate: "ST-0001", Model: "Volvo FH16", Year: 2018, Status: models.TruckOperational},
		{Plate: "ST-0002", Model: "Volvo FH16", Year: 2020, Status: models.TruckOperational},
		{Plate: "ST-0003", Model: "Scania R450", Year: 2022, Status: models.TruckInRepair},
	}
	for _, tr := range seed {
		require.NoError(t, store.InsertTruck(ctx, tr))
	}

	stats, err := store.TruckStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Operational)
	assert.Equal(t, int64(1), stats.InRepair)
	assert.Equal(t, int64(0), stats.OutOfService)
	assert.Greater(t, stats.AverageAge, 0.0)
	require.NotEmpty(t, stats.TopModels)
	assert.Equal(t, "Volvo FH16", stats.TopModels[0].Model)
	assert.Equal(t, int64(2), stats.TopModels[0].Count)
}
