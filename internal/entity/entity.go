// Package entity defines the commerce domain types shared across the store,
// the mutation engine, and the API boundary: Customer, Product, Order, and
// the typed error taxonomy returned by validation.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a CRM customer record.
//
// Email is globally unique across all customers; the store enforces this with
// a UNIQUE index as the correctness backstop, and the engine pre-checks it to
// produce a friendly typed error.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalog item.
//
// Price uses decimal arithmetic (never floats) so order totals are exact.
// Stock never goes negative; the restock sweep only ever raises it.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCancelled OrderStatus = "cancelled"
	StatusCompleted OrderStatus = "completed"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Order links one customer to one or more products.
//
// TotalAmount is a derived field: the sum of the referenced products' prices
// at creation time. It is never accepted as client input and is not
// recomputed when prices later change.
type Order struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	ProductIDs  []string        `json:"product_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
	Status      OrderStatus     `json:"status"`
}
