package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmd/internal/entity"
)

func TestClient_Hello(t *testing.T) {
	ts := setupAPI(t)
	client := NewClient(ts.URL, 5*time.Second)

	msg, err := client.Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello, CRM!", msg)
}

func TestClient_DomainErrorReconstructed(t *testing.T) {
	ts := setupAPI(t)
	client := NewClient(ts.URL, 5*time.Second)
	ctx := context.Background()

	err := client.Do(ctx, "createCustomer", customerArgs{Name: "Alice", Email: "a@example.com"}, nil)
	require.NoError(t, err)

	err = client.Do(ctx, "createCustomer", customerArgs{Name: "Imposter", Email: "a@example.com"}, nil)
	assert.True(t, entity.IsCode(err, entity.CodeDuplicateEmail), "got %v", err)
}

func TestClient_TransportUnavailable(t *testing.T) {
	ts := setupAPI(t)
	client := NewClient(ts.URL, time.Second)
	ts.Close() // nothing is listening anymore

	_, err := client.Hello(context.Background())
	assert.True(t, entity.IsCode(err, entity.CodeTransportUnavailable), "got %v", err)
}

func TestClient_RestockAndStaleOrders(t *testing.T) {
	ts := setupAPI(t)
	client := NewClient(ts.URL, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, client.Do(ctx, "createProduct", map[string]any{"name": "Phone", "price": 500, "stock": 2}, nil))

	updated, err := client.RestockLowStock(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, 10, updated[0].Stock)

	orders, err := client.StaleOrders(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
