// Package validate implements the pre-write validation checks of the
// mutation engine. Each check returns nil or a typed *entity.DomainError;
// checks never mutate anything.
//
// Format and range checks (Phone, Price, Stock) are pure. Uniqueness and
// reference checks read through a StoreReader, which in practice is an open
// store transaction so the check and the subsequent write observe the same
// snapshot.
package validate

import (
	"context"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"crmd/internal/entity"
)

// phonePattern accepts international form (+ followed by 10-15 digits)
// or US dashed form (XXX-XXX-XXXX).
var phonePattern = regexp.MustCompile(`^(\+\d{10,15}|\d{3}-\d{3}-\d{4})$`)

// StoreReader is the narrow read surface the store-backed checks need.
// *store.Tx satisfies it.
type StoreReader interface {
	CustomerEmailExists(ctx context.Context, email string) (bool, error)
	CustomerExists(ctx context.Context, id string) (bool, error)
	GetProducts(ctx context.Context, ids []string) ([]entity.Product, error)
}

// Phone checks the optional phone field. Empty is valid (the field is
// optional); anything else must match phonePattern.
func Phone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return entity.NewInvalidPhoneFormat(phone)
	}
	return nil
}

// Price checks that a product price is strictly positive.
func Price(price decimal.Decimal) error {
	if price.Sign() <= 0 {
		return entity.NewInvalidPrice(price.String())
	}
	return nil
}

// Stock checks that a stock count is non-negative.
func Stock(stock int) error {
	if stock < 0 {
		return entity.NewInvalidStock(stock)
	}
	return nil
}

// EmailUnique checks that no existing customer holds this email.
// Matching is case-sensitive, exact as stored.
func EmailUnique(ctx context.Context, r StoreReader, email string) error {
	exists, err := r.CustomerEmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("validate email uniqueness: %w", err)
	}
	if exists {
		return entity.NewDuplicateEmail(email)
	}
	return nil
}

// CustomerRef checks that a customer id resolves.
func CustomerRef(ctx context.Context, r StoreReader, id string) error {
	exists, err := r.CustomerExists(ctx, id)
	if err != nil {
		return fmt.Errorf("validate customer ref: %w", err)
	}
	if !exists {
		return entity.NewUnknownCustomer(id)
	}
	return nil
}

// ProductRefs checks that ids is non-empty and that every id resolves.
// On success it returns the resolved products in input order, so callers can
// derive the order total from the same reads that validated the references.
// On failure the UNKNOWN_PRODUCT error lists exactly the ids that did not
// resolve, in input order.
func ProductRefs(ctx context.Context, r StoreReader, ids []string) ([]entity.Product, error) {
	if len(ids) == 0 {
		return nil, entity.NewEmptyProductList()
	}

	products, err := r.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("validate product refs: %w", err)
	}

	if len(products) != len(ids) {
		resolved := make(map[string]bool, len(products))
		for _, p := range products {
			resolved[p.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !resolved[id] {
				missing = append(missing, id)
			}
		}
		return nil, entity.NewUnknownProduct(missing)
	}

	return products, nil
}
