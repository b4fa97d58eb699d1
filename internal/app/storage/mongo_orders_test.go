package storage

import (
	"context"
	"francoggm/versapay-checkout/internal/models"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newTestMongoStore(t *testing.T) *MongoOrderStore {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("versapay-checkout-test-" + uuid.NewString()[:8])
	t.Cleanup(func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	})

	return NewMongoOrderStore(db)
}

func TestMongoOrderStore(t *testing.T) {
	ctx := context.Background()
	store := newTestMongoStore(t)

	first := models.OrderMeta{VersapayOrderID: "o-1", ApprovalCode: "A1"}
	_, written, err := store.SaveMeta(ctx, "100", first)
	require.NoError(t, err)
	assert.True(t, written)

	meta, written, err := store.SaveMeta(ctx, "100", models.OrderMeta{VersapayOrderID: "o-2"})
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, first, meta)

	require.NoError(t, store.Complete(ctx, models.OrderCompletion{OrderID: "100", Meta: first}))

	order, err := store.GetOrder(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, "A1", order.TransactionID)
	assert.Len(t, order.Notes, 3)

	_, err = store.GetMeta(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
