package db

import (
	"context"
	"os"
	"testing"

	"github.com/ukydev/fleet-maintenance/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// testCollection connects to the test database and returns a dropped,
// clean collection. Tests skip when no MongoDB is reachable.
func testCollection(t *testing.T, name string) *mongo.Collection {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := Connect(context.Background(), &config.Config{MongoURI: uri})
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	collection := client.Database("fleet_maintenance_test").Collection(name)
	collection.Drop(context.Background())
	return collection
}
