package store

import (
	"context"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"crmd/internal/entity"
)

// InsertCustomer inserts a customer record.
//
// The UNIQUE index on email is the storage-level backstop for the uniqueness
// invariant (CP-1): if a concurrent writer won the race after the engine's
// pre-check, the constraint violation is mapped back to the same typed
// DUPLICATE_EMAIL error the pre-check would have produced.
func (t *Tx) InsertCustomer(ctx context.Context, c entity.Customer) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		marshalTime(c.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.NewDuplicateEmail(c.Email)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// InsertProduct inserts a product record.
// Price and stock bounds are validated by the engine before this is called;
// the CHECK(stock >= 0) constraint remains as a backstop.
func (t *Tx) InsertProduct(ctx context.Context, p entity.Product) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO products (id, name, price, stock, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		p.ID,
		p.Name,
		marshalDecimal(p.Price),
		p.Stock,
		marshalTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// InsertOrder inserts an order row plus one order_products row per reference,
// all inside the surrounding transaction (CP-2). The foreign key constraints
// re-check every reference at commit time, so a concurrent deletion between
// the engine's validation reads and this write fails the whole transaction
// instead of persisting a dangling reference.
func (t *Tx) InsertOrder(ctx context.Context, o entity.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total_amount, order_date, status)
		VALUES (?, ?, ?, ?, ?)
	`,
		o.ID,
		o.CustomerID,
		marshalDecimal(o.TotalAmount),
		marshalTime(o.OrderDate),
		string(o.Status),
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, productID := range o.ProductIDs {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_products (order_id, position, product_id)
			VALUES (?, ?, ?)
		`,
			o.ID,
			i,
			productID,
		)
		if err != nil {
			return fmt.Errorf("insert order product %q: %w", productID, err)
		}
	}

	return nil
}

// SetProductStock updates a product's stock count.
// Used by the restock sweep; this core only ever raises stock.
func (t *Tx) SetProductStock(ctx context.Context, productID string, stock int) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE products SET stock = ? WHERE id = ?
	`, stock, productID)
	if err != nil {
		return fmt.Errorf("set product stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set product stock: rows affected: %w", err)
	}
	if n == 0 {
		return entity.NewUnknownProduct([]string{productID})
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
