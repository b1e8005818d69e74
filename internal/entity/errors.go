package entity

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a validation or consistency violation detected
// before a write is attempted, or a transport-level failure reaching a
// collaborator.
//
// Domain errors are data, not faults: every mutation returns either the
// created entity or exactly one DomainError, and batch operations collect
// them per record instead of aborting.
type DomainError struct {
	// Code identifies the violation category.
	Code ErrorCode

	// Message is a human-readable description, returned verbatim to clients.
	Message string

	// ProductIDs lists the unresolved product ids (UNKNOWN_PRODUCT only).
	ProductIDs []string
}

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// CodeDuplicateEmail indicates a customer email that already exists.
	CodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"

	// CodeInvalidPhoneFormat indicates a phone that matches neither
	// accepted format (+<10-15 digits> or XXX-XXX-XXXX).
	CodeInvalidPhoneFormat ErrorCode = "INVALID_PHONE_FORMAT"

	// CodeInvalidPrice indicates a price that is not strictly positive.
	CodeInvalidPrice ErrorCode = "INVALID_PRICE"

	// CodeInvalidStock indicates a negative stock value.
	CodeInvalidStock ErrorCode = "INVALID_STOCK"

	// CodeEmptyProductList indicates an order with no product references.
	CodeEmptyProductList ErrorCode = "EMPTY_PRODUCT_LIST"

	// CodeUnknownCustomer indicates a customer id that does not resolve.
	CodeUnknownCustomer ErrorCode = "UNKNOWN_CUSTOMER"

	// CodeUnknownProduct indicates one or more product ids that do not resolve.
	CodeUnknownProduct ErrorCode = "UNKNOWN_PRODUCT"

	// CodeTransportUnavailable indicates the store or API could not be
	// reached at all; used by sweeps to report a whole-invocation failure.
	CodeTransportUnavailable ErrorCode = "TRANSPORT_UNAVAILABLE"
)

// Error implements the error interface.
func (e *DomainError) Error() string {
	if len(e.ProductIDs) > 0 {
		return fmt.Sprintf("%s: %s (ids=%s)", e.Code, e.Message, strings.Join(e.ProductIDs, ","))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is (or wraps) a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// AsDomainError unwraps err to a *DomainError, or returns nil if it is not one.
func AsDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// NewDuplicateEmail creates a DomainError for an already-taken email.
func NewDuplicateEmail(email string) *DomainError {
	return &DomainError{
		Code:    CodeDuplicateEmail,
		Message: fmt.Sprintf("a customer with email %q already exists", email),
	}
}

// NewInvalidPhoneFormat creates a DomainError for a malformed phone number.
func NewInvalidPhoneFormat(phone string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidPhoneFormat,
		Message: fmt.Sprintf("phone %q must match +1234567890 or 123-456-7890", phone),
	}
}

// NewInvalidPrice creates a DomainError for a non-positive price.
func NewInvalidPrice(price string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidPrice,
		Message: fmt.Sprintf("price must be positive, got %s", price),
	}
}

// NewInvalidStock creates a DomainError for a negative stock value.
func NewInvalidStock(stock int) *DomainError {
	return &DomainError{
		Code:    CodeInvalidStock,
		Message: fmt.Sprintf("stock cannot be negative, got %d", stock),
	}
}

// NewEmptyProductList creates a DomainError for an order without products.
func NewEmptyProductList() *DomainError {
	return &DomainError{
		Code:    CodeEmptyProductList,
		Message: "an order must reference at least one product",
	}
}

// NewUnknownCustomer creates a DomainError for an unresolved customer id.
func NewUnknownCustomer(id string) *DomainError {
	return &DomainError{
		Code:    CodeUnknownCustomer,
		Message: fmt.Sprintf("customer %q does not exist", id),
	}
}

// NewUnknownProduct creates a DomainError listing exactly the product ids
// that failed to resolve.
func NewUnknownProduct(ids []string) *DomainError {
	return &DomainError{
		Code:       CodeUnknownProduct,
		Message:    fmt.Sprintf("unknown product ids: %s", strings.Join(ids, ", ")),
		ProductIDs: ids,
	}
}

// NewTransportUnavailable wraps a transport-level failure as a DomainError.
func NewTransportUnavailable(cause error) *DomainError {
	return &DomainError{
		Code:    CodeTransportUnavailable,
		Message: fmt.Sprintf("transport unavailable: %v", cause),
	}
}
