package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"crmd/internal/entity"
	"crmd/internal/store"
	"crmd/internal/validate"
)

// CreateCustomer validates and persists a new customer.
//
// Checks run uniqueness first, then phone format: a malformed phone on an
// already-duplicate email still reports DUPLICATE_EMAIL (first-failure-wins).
// The uniqueness pre-check and the insert share one transaction, and the
// store's UNIQUE index remains the backstop under concurrent writers.
func (e *Engine) CreateCustomer(ctx context.Context, in CustomerInput) (*entity.Customer, error) {
	var created *entity.Customer

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := validate.EmailUnique(ctx, tx, in.Email); err != nil {
			return err
		}
		if err := validate.Phone(in.Phone); err != nil {
			return err
		}

		c := entity.Customer{
			ID:        e.ids.Generate(),
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			CreatedAt: e.now(),
		}
		if err := tx.InsertCustomer(ctx, c); err != nil {
			return err
		}
		created = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateProduct validates and persists a new product.
// Price is checked before stock; a failure on either aborts before any write.
func (e *Engine) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := validate.Price(in.Price); err != nil {
		return nil, err
	}
	if err := validate.Stock(in.Stock); err != nil {
		return nil, err
	}

	var created *entity.Product
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		p := entity.Product{
			ID:        e.ids.Generate(),
			Name:      in.Name,
			Price:     in.Price,
			Stock:     in.Stock,
			CreatedAt: e.now(),
		}
		if err := tx.InsertProduct(ctx, p); err != nil {
			return err
		}
		created = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateOrder validates references and persists a new order atomically.
//
// Check order: non-empty product list, then the customer reference, then
// every product reference. Reference resolution and the order write share
// one transaction, so a concurrent deletion of a referenced product fails
// the whole operation instead of persisting a dangling reference.
//
// The total is derived inside the same transaction as the sum of the
// resolved products' prices; client-supplied totals are never accepted.
func (e *Engine) CreateOrder(ctx context.Context, in OrderInput) (*entity.Order, error) {
	ids := dedupe(in.ProductIDs)
	if len(ids) == 0 {
		return nil, entity.NewEmptyProductList()
	}

	var created *entity.Order
	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := validate.CustomerRef(ctx, tx, in.CustomerID); err != nil {
			return err
		}
		products, err := validate.ProductRefs(ctx, tx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Price)
		}

		orderDate := in.OrderDate
		if orderDate.IsZero() {
			orderDate = e.now()
		}

		o := entity.Order{
			ID:          e.ids.Generate(),
			CustomerID:  in.CustomerID,
			ProductIDs:  ids,
			TotalAmount: total,
			OrderDate:   orderDate,
			Status:      entity.StatusPending,
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
