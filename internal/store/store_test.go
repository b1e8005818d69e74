package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crmd/internal/entity"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustDecimal(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", v, err)
	}
	return d
}

func insertCustomer(t *testing.T, s *Store, c entity.Customer) {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx *Tx) error {
		return tx.InsertCustomer(context.Background(), c)
	})
	if err != nil {
		t.Fatalf("InsertCustomer(%s) failed: %v", c.ID, err)
	}
}

func insertProduct(t *testing.T, s *Store, p entity.Product) {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx *Tx) error {
		return tx.InsertProduct(context.Background(), p)
	})
	if err != nil {
		t.Fatalf("InsertProduct(%s) failed: %v", p.ID, err)
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"customers", "products", "orders", "order_products"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	checks := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
	}
	for name, expected := range checks {
		if err := s.verifyPragma(name, expected); err != nil {
			t.Errorf("pragma check failed: %v", err)
		}
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestInsertCustomer_UniqueEmailBackstop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	insertCustomer(t, s, entity.Customer{ID: "c-1", Name: "Alice", Email: "alice@example.com", CreatedAt: now})

	// Insert bypasses the engine's pre-check entirely; the UNIQUE index must
	// still reject the duplicate and the error must come back typed.
	err := s.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertCustomer(ctx, entity.Customer{ID: "c-2", Name: "Other", Email: "alice@example.com", CreatedAt: now})
	})
	if !entity.IsCode(err, entity.CodeDuplicateEmail) {
		t.Fatalf("expected DUPLICATE_EMAIL, got %v", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("store contains %d customers, want 1", count)
	}
}

func TestGetCustomerByEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	insertCustomer(t, s, entity.Customer{ID: "c-1", Name: "Alice", Email: "alice@example.com", Phone: "+12025550100", CreatedAt: time.Now()})

	c, err := s.GetCustomerByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetCustomerByEmail failed: %v", err)
	}
	if c.ID != "c-1" || c.Phone != "+12025550100" {
		t.Errorf("unexpected customer: %+v", c)
	}

	// Case-sensitive exact match as stored.
	if _, err := s.GetCustomerByEmail(ctx, "ALICE@example.com"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for different case, got %v", err)
	}
}

func TestInsertOrder_TransactionalWithProducts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	insertCustomer(t, s, entity.Customer{ID: "c-1", Name: "Alice", Email: "a@example.com", CreatedAt: now})
	insertProduct(t, s, entity.Product{ID: "p-1", Name: "Phone", Price: mustDecimal(t, "500"), Stock: 5, CreatedAt: now})

	// Second reference does not exist: the foreign key must fail the whole
	// transaction, leaving no order row behind.
	err := s.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertOrder(ctx, entity.Order{
			ID:          "o-1",
			CustomerID:  "c-1",
			ProductIDs:  []string{"p-1", "p-missing"},
			TotalAmount: mustDecimal(t, "500"),
			OrderDate:   now,
			Status:      entity.StatusPending,
		})
	})
	if err == nil {
		t.Fatal("expected foreign key failure, got nil")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("partial order persisted: %d order rows, want 0", count)
	}
}

func TestGetOrder_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	insertCustomer(t, s, entity.Customer{ID: "c-1", Name: "Alice", Email: "a@example.com", CreatedAt: now})
	insertProduct(t, s, entity.Product{ID: "p-1", Name: "Phone", Price: mustDecimal(t, "500"), Stock: 5, CreatedAt: now})
	insertProduct(t, s, entity.Product{ID: "p-2", Name: "Tablet", Price: mustDecimal(t, "800"), Stock: 3, CreatedAt: now})

	want := entity.Order{
		ID:          "o-1",
		CustomerID:  "c-1",
		ProductIDs:  []string{"p-2", "p-1"}, // input order must survive
		TotalAmount: mustDecimal(t, "1300"),
		OrderDate:   now,
		Status:      entity.StatusPending,
	}
	err := s.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertOrder(ctx, want)
	})
	if err != nil {
		t.Fatalf("InsertOrder failed: %v", err)
	}

	got, err := s.GetOrder(ctx, "o-1")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.CustomerID != "c-1" || got.Status != entity.StatusPending {
		t.Errorf("unexpected order: %+v", got)
	}
	if !got.TotalAmount.Equal(want.TotalAmount) {
		t.Errorf("total = %s, want %s", got.TotalAmount, want.TotalAmount)
	}
	if len(got.ProductIDs) != 2 || got.ProductIDs[0] != "p-2" || got.ProductIDs[1] != "p-1" {
		t.Errorf("product ids = %v, want [p-2 p-1]", got.ProductIDs)
	}
	if !got.OrderDate.Equal(now) {
		t.Errorf("order date = %v, want %v", got.OrderDate, now)
	}
}

func TestProductsBelowStock(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	insertProduct(t, s, entity.Product{ID: "p-1", Name: "Low", Price: mustDecimal(t, "1"), Stock: 3, CreatedAt: now})
	insertProduct(t, s, entity.Product{ID: "p-2", Name: "High", Price: mustDecimal(t, "1"), Stock: 50, CreatedAt: now})
	insertProduct(t, s, entity.Product{ID: "p-3", Name: "Edge", Price: mustDecimal(t, "1"), Stock: 10, CreatedAt: now})

	low, err := s.ProductsBelowStock(ctx, 10)
	if err != nil {
		t.Fatalf("ProductsBelowStock failed: %v", err)
	}
	// Strictly below threshold: stock 10 is not "below 10".
	if len(low) != 1 || low[0].ID != "p-1" {
		t.Errorf("low stock = %+v, want only p-1", low)
	}
}

func TestSetProductStock_UnknownProduct(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx *Tx) error {
		return tx.SetProductStock(ctx, "p-missing", 10)
	})
	if !entity.IsCode(err, entity.CodeUnknownProduct) {
		t.Errorf("expected UNKNOWN_PRODUCT, got %v", err)
	}
}

func TestPendingOrdersBefore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -8)

	insertCustomer(t, s, entity.Customer{ID: "c-1", Name: "Alice", Email: "a@example.com", CreatedAt: now})
	insertProduct(t, s, entity.Product{ID: "p-1", Name: "Phone", Price: mustDecimal(t, "500"), Stock: 5, CreatedAt: now})

	orders := []entity.Order{
		{ID: "o-stale", CustomerID: "c-1", ProductIDs: []string{"p-1"}, TotalAmount: mustDecimal(t, "500"), OrderDate: old, Status: entity.StatusPending},
		{ID: "o-done", CustomerID: "c-1", ProductIDs: []string{"p-1"}, TotalAmount: mustDecimal(t, "500"), OrderDate: old, Status: entity.StatusCompleted},
		{ID: "o-fresh", CustomerID: "c-1", ProductIDs: []string{"p-1"}, TotalAmount: mustDecimal(t, "500"), OrderDate: now, Status: entity.StatusPending},
	}
	for _, o := range orders {
		err := s.WithTx(ctx, func(tx *Tx) error { return tx.InsertOrder(ctx, o) })
		if err != nil {
			t.Fatalf("InsertOrder(%s) failed: %v", o.ID, err)
		}
	}

	cutoff := now.AddDate(0, 0, -7)
	pending, err := s.PendingOrdersBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("PendingOrdersBefore failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending orders, want 1: %+v", len(pending), pending)
	}
	if pending[0].OrderID != "o-stale" || pending[0].CustomerEmail != "a@example.com" {
		t.Errorf("unexpected pending order: %+v", pending[0])
	}
}

func TestPendingOrdersBefore_EmptyIsNotNil(t *testing.T) {
	s := openTestStore(t)

	pending, err := s.PendingOrdersBefore(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("PendingOrdersBefore failed: %v", err)
	}
	if pending == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(pending) != 0 {
		t.Errorf("expected no orders, got %d", len(pending))
	}
}

func TestProductByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	insertProduct(t, s, entity.Product{ID: "p-1", Name: "Phone", Price: mustDecimal(t, "500"), Stock: 5, CreatedAt: time.Now()})

	p, err := s.ProductByName(ctx, "Phone")
	if err != nil {
		t.Fatalf("ProductByName failed: %v", err)
	}
	if p.ID != "p-1" {
		t.Errorf("got product %q, want p-1", p.ID)
	}

	if _, err := s.ProductByName(ctx, "Tablet"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
