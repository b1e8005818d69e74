package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"crmd/internal/engine"
	"crmd/internal/entity"
	"crmd/internal/store"
)

// Request is the wire shape of an API call: a named operation plus its
// arguments.
type Request struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args,omitempty"`
}

// Response is the wire shape of every API reply. Exactly one of Data and
// Error is set, keyed by OK.
type Response struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ResponseError  `json:"error,omitempty"`
}

// ResponseError is the structured error payload.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Boundary-level error codes for failures outside the domain taxonomy.
const (
	codeBadRequest = "BAD_REQUEST"
	codeInternal   = "INTERNAL"
)

// Success messages mirror the original mutation responses: every successful
// mutation carries the created entity plus a message, never a silent no-op.
const (
	msgCustomerCreated = "Customer created successfully"
	msgProductCreated  = "Product created successfully"
	msgOrderCreated    = "Order created successfully"
)

// helloData is the payload of the hello query, the trivial read the
// heartbeat probe issues.
type helloData struct {
	Hello string `json:"hello"`
}

type customerArgs struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type customerData struct {
	Customer entity.Customer `json:"customer"`
	Message  string          `json:"message"`
}

type productArgs struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock,omitempty"`
}

type productData struct {
	Product entity.Product `json:"product"`
	Message string         `json:"message"`
}

type orderArgs struct {
	CustomerID string   `json:"customer_id"`
	ProductIDs []string `json:"product_ids"`
	OrderDate  string   `json:"order_date,omitempty"` // RFC 3339; empty means "now"
}

type orderData struct {
	Order   entity.Order `json:"order"`
	Message string       `json:"message"`
}

type bulkCustomersArgs struct {
	Customers []customerArgs `json:"customers"`
}

type restockArgs struct {
	Threshold *int `json:"threshold,omitempty"` // default 10
	Target    *int `json:"target,omitempty"`    // default 10
}

type restockData struct {
	Updated []entity.Product `json:"updated"`
	Count   int              `json:"count"`
}

type staleOrdersArgs struct {
	WindowDays *int `json:"window_days,omitempty"` // default 7
}

type staleOrdersData struct {
	Orders []store.PendingOrder `json:"orders"`
}

type idArgs struct {
	ID string `json:"id"`
}

func toCustomerInputs(args []customerArgs) []engine.CustomerInput {
	inputs := make([]engine.CustomerInput, len(args))
	for i, a := range args {
		inputs[i] = engine.CustomerInput{Name: a.Name, Email: a.Email, Phone: a.Phone}
	}
	return inputs
}
