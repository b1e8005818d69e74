package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crmd/internal/entity"
)

// ErrNotFound is returned by single-record lookups when no row matches.
var ErrNotFound = errors.New("record not found")

// PendingOrder pairs a pending order with its owning customer's email,
// the shape the reminder sweep emits.
type PendingOrder struct {
	OrderID       string    `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	OrderDate     time.Time `json:"order_date"`
}

// CustomerEmailExists reports whether any customer has exactly this email.
// Matching is case-sensitive, exact as stored.
func (t *Tx) CustomerEmailExists(ctx context.Context, email string) (bool, error) {
	return customerEmailExists(ctx, t.tx, email)
}

// CustomerExists reports whether a customer id resolves.
func (t *Tx) CustomerExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM customers WHERE id = ?
	`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check customer: %w", err)
	}
	return count > 0, nil
}

// GetProducts returns the products matching ids, in input order.
// Ids that do not resolve are simply absent from the result; callers detect
// missing references by comparing lengths or id sets.
func (t *Tx) GetProducts(ctx context.Context, ids []string) ([]entity.Product, error) {
	byID := make(map[string]entity.Product, len(ids))
	for _, id := range ids {
		p, err := getProduct(ctx, t.tx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		byID[id] = *p
	}

	products := make([]entity.Product, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// ProductsBelowStock returns all products with stock strictly below threshold,
// ordered deterministically by id.
func (t *Tx) ProductsBelowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	return productsBelowStock(ctx, t.tx, threshold)
}

// GetCustomer returns a customer by id, or ErrNotFound.
func (s *Store) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	return getCustomer(ctx, s.db, `SELECT id, name, email, phone, created_at FROM customers WHERE id = ?`, id)
}

// GetCustomerByEmail returns a customer by exact email, or ErrNotFound.
func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return getCustomer(ctx, s.db, `SELECT id, name, email, phone, created_at FROM customers WHERE email = ?`, email)
}

// GetProduct returns a product by id, or ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return getProduct(ctx, s.db, id)
}

// ProductByName returns the first product with the given name, or
// ErrNotFound. Names are not unique; this exists for get-or-create style
// seeding, where re-running the seed must not duplicate fixtures.
func (s *Store) ProductByName(ctx context.Context, name string) (*entity.Product, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM products WHERE name = ? ORDER BY id ASC LIMIT 1
	`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by name: %w", err)
	}
	return getProduct(ctx, s.db, id)
}

// ProductsBelowStock returns all products with stock strictly below threshold.
func (s *Store) ProductsBelowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	return productsBelowStock(ctx, s.db, threshold)
}

// GetOrder returns an order by id with its product references in the order
// they were supplied at creation, or ErrNotFound.
func (s *Store) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var (
		o         entity.Order
		total     string
		orderDate string
		status    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total_amount, order_date, status
		FROM orders
		WHERE id = ?
	`, id).Scan(&o.ID, &o.CustomerID, &total, &orderDate, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	if o.TotalAmount, err = unmarshalDecimal(total); err != nil {
		return nil, err
	}
	if o.OrderDate, err = unmarshalTime(orderDate); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id FROM order_products
		WHERE order_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		if err := rows.Scan(&productID); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		o.ProductIDs = append(o.ProductIDs, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order products: %w", err)
	}

	return &o, nil
}

// PendingOrdersBefore returns all pending orders with order_date strictly
// older than cutoff, joined with the owning customer's email.
// Read-only: the reminder sweep never mutates records.
func (s *Store) PendingOrdersBefore(ctx context.Context, cutoff time.Time) ([]PendingOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, c.email, o.order_date
		FROM orders o
		JOIN customers c ON o.customer_id = c.id
		WHERE o.status = 'pending' AND o.order_date < ?
		ORDER BY o.order_date ASC, o.id ASC
	`, marshalTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}
	defer rows.Close()

	pending := []PendingOrder{}
	for rows.Next() {
		var (
			p    PendingOrder
			date string
		)
		if err := rows.Scan(&p.OrderID, &p.CustomerEmail, &date); err != nil {
			return nil, fmt.Errorf("scan pending order: %w", err)
		}
		if p.OrderDate, err = unmarshalTime(date); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending orders: %w", err)
	}

	return pending, nil
}

func customerEmailExists(ctx context.Context, q querier, email string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM customers WHERE email = ?
	`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check customer email: %w", err)
	}
	return count > 0, nil
}

func getCustomer(ctx context.Context, q querier, query, arg string) (*entity.Customer, error) {
	var (
		c         entity.Customer
		createdAt string
	)
	err := q.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	if c.CreatedAt, err = unmarshalTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func getProduct(ctx context.Context, q querier, id string) (*entity.Product, error) {
	var (
		p         entity.Product
		price     string
		createdAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, name, price, stock, created_at FROM products WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &price, &p.Stock, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	if p.Price, err = unmarshalDecimal(price); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = unmarshalTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func productsBelowStock(ctx context.Context, q querier, threshold int) ([]entity.Product, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, price, stock, created_at
		FROM products
		WHERE stock < ?
		ORDER BY id ASC
	`, threshold)
	if err != nil {
		return nil, fmt.Errorf("query low-stock products: %w", err)
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		var (
			p         entity.Product
			price     string
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Stock, &createdAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if p.Price, err = unmarshalDecimal(price); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = unmarshalTime(createdAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}
