package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// TestMongoStore runs against a real deployment when MONGODB_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(fmt.Sprintf("recruitment_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	n := 0
	runStoreContract(t, func(t *testing.T) ApplicationStore {
		n++
		store := NewMongoStore(db.Collection(fmt.Sprintf("applications_%d", n)))
		require.NoError(t, store.EnsureIndexes(context.Background()))
		return store
	})
}
