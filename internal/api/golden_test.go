package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"crmd/internal/engine"
	"crmd/internal/entity"
)

// rawPost sends an operation and returns the status code and raw body bytes.
func rawPost(t *testing.T, ts *httptest.Server, operation string, args any) (int, []byte) {
	t.Helper()

	req := Request{Operation: operation}
	if args != nil {
		raw, err := json.Marshal(args)
		require.NoError(t, err)
		req.Args = raw
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// TestGolden_APIScenario runs a scripted request sequence with a fixed clock
// and fixed entity ids, then compares every response byte-for-byte against
// the golden file.
//
// To regenerate the golden file, run:
//
//	go test ./internal/api -run TestGolden -update
func TestGolden_APIScenario(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ts := setupAPI(t,
		engine.WithIDGenerator(entity.NewFixedGenerator("c-1", "p-1", "p-2", "o-1")),
		engine.WithNow(func() time.Time { return now }),
	)

	steps := []struct {
		name string
		op   string
		args any
	}{
		{"hello", "hello", nil},
		{"create_customer", "createCustomer", customerArgs{Name: "Alice", Email: "alice@example.com", Phone: "+12025550100"}},
		{"duplicate_email", "createCustomer", customerArgs{Name: "Imposter", Email: "alice@example.com"}},
		{"create_product_phone", "createProduct", map[string]any{"name": "Phone", "price": 500, "stock": 5}},
		{"create_product_tablet", "createProduct", map[string]any{"name": "Tablet", "price": 800, "stock": 3}},
		{"invalid_price", "createProduct", map[string]any{"name": "Freebie", "price": -1, "stock": 5}},
		{"create_order", "createOrder", orderArgs{CustomerID: "c-1", ProductIDs: []string{"p-1", "p-2"}}},
		{"empty_product_list", "createOrder", orderArgs{CustomerID: "c-1", ProductIDs: []string{}}},
		{"restock_low_stock", "restockLowStock", nil},
		{"stale_orders", "staleOrders", nil},
		{"unknown_operation", "teleport", nil},
	}

	var trace bytes.Buffer
	for _, step := range steps {
		status, body := rawPost(t, ts, step.op, step.args)
		fmt.Fprintf(&trace, "%s %d %s\n", step.name, status, body)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "api_scenario", trace.Bytes())
}
