package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crmd/internal/engine"
	"crmd/internal/entity"
	"crmd/internal/store"
)

// Default sweep parameters, used when the caller omits them.
const (
	DefaultRestockThreshold = 10
	DefaultRestockTarget    = 10
	DefaultReminderDays     = 7
)

// Server dispatches named operations to the mutation engine and the store.
type Server struct {
	engine *engine.Engine
	store  *store.Store
	log    *zap.Logger
}

// NewServer creates an API server. A nil logger falls back to zap.NewNop.
func NewServer(eng *engine.Engine, st *store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{engine: eng, store: st, log: log}
}

// Router builds the HTTP routing table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", s.handleHealthz)
	r.POST("/api", s.handleOperation)
	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	respondData(c, helloData{Hello: "Hello, CRM!"})
}

// handleOperation decodes the request envelope and dispatches by name.
func (s *Server) handleOperation(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	payload, err := s.dispatch(c, req)
	if err != nil {
		s.respondOperationError(c, req.Operation, err)
		return
	}
	respondData(c, payload)
}

func (s *Server) dispatch(c *gin.Context, req Request) (any, error) {
	ctx := c.Request.Context()

	switch req.Operation {
	case "hello":
		return helloData{Hello: "Hello, CRM!"}, nil

	case "createCustomer":
		var args customerArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		cust, err := s.engine.CreateCustomer(ctx, engine.CustomerInput{
			Name:  args.Name,
			Email: args.Email,
			Phone: args.Phone,
		})
		if err != nil {
			return nil, err
		}
		s.log.Info("customer created", zap.String("id", cust.ID), zap.String("email", cust.Email))
		return customerData{Customer: *cust, Message: msgCustomerCreated}, nil

	case "createProduct":
		var args productArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		prod, err := s.engine.CreateProduct(ctx, engine.ProductInput{
			Name:  args.Name,
			Price: args.Price,
			Stock: args.Stock,
		})
		if err != nil {
			return nil, err
		}
		s.log.Info("product created", zap.String("id", prod.ID), zap.String("name", prod.Name))
		return productData{Product: *prod, Message: msgProductCreated}, nil

	case "createOrder":
		var args orderArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		var orderDate time.Time
		if args.OrderDate != "" {
			var err error
			orderDate, err = time.Parse(time.RFC3339, args.OrderDate)
			if err != nil {
				return nil, badRequestErr(fmt.Sprintf("invalid order_date %q: must be RFC 3339", args.OrderDate))
			}
		}
		order, err := s.engine.CreateOrder(ctx, engine.OrderInput{
			CustomerID: args.CustomerID,
			ProductIDs: args.ProductIDs,
			OrderDate:  orderDate,
		})
		if err != nil {
			return nil, err
		}
		s.log.Info("order created",
			zap.String("id", order.ID),
			zap.String("customer_id", order.CustomerID),
			zap.String("total", order.TotalAmount.String()))
		return orderData{Order: *order, Message: msgOrderCreated}, nil

	case "bulkCreateCustomers":
		var args bulkCustomersArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		result := s.engine.BulkCreateCustomers(ctx, toCustomerInputs(args.Customers))
		s.log.Info("bulk customers processed",
			zap.Int("created", len(result.Created)),
			zap.Int("failed", len(result.Errors)))
		return result, nil

	case "restockLowStock":
		var args restockArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		threshold := DefaultRestockThreshold
		if args.Threshold != nil {
			threshold = *args.Threshold
		}
		target := DefaultRestockTarget
		if args.Target != nil {
			target = *args.Target
		}
		updated, err := s.engine.RestockLowStock(ctx, threshold, target)
		if err != nil {
			return nil, err
		}
		return restockData{Updated: updated, Count: len(updated)}, nil

	case "staleOrders":
		var args staleOrdersArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		days := DefaultReminderDays
		if args.WindowDays != nil {
			days = *args.WindowDays
		}
		orders, err := s.engine.StaleOrders(ctx, time.Duration(days)*24*time.Hour)
		if err != nil {
			return nil, err
		}
		return staleOrdersData{Orders: orders}, nil

	case "customer":
		var args idArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		cust, err := s.store.GetCustomer(ctx, args.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, entity.NewUnknownCustomer(args.ID)
		}
		if err != nil {
			return nil, err
		}
		return cust, nil

	case "product":
		var args idArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		prod, err := s.store.GetProduct(ctx, args.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, entity.NewUnknownProduct([]string{args.ID})
		}
		if err != nil {
			return nil, err
		}
		return prod, nil

	case "order":
		var args idArgs
		if err := decodeArgs(req.Args, &args); err != nil {
			return nil, err
		}
		order, err := s.store.GetOrder(ctx, args.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, badRequestErr(fmt.Sprintf("order %q does not exist", args.ID))
		}
		if err != nil {
			return nil, err
		}
		return order, nil

	default:
		return nil, badRequestErr(fmt.Sprintf("unknown operation %q", req.Operation))
	}
}

// respondOperationError maps an operation error onto the wire.
// Domain errors are data: they go out ok=false on HTTP 200. Malformed
// arguments are 400. Everything else is a storage/internal fault: 500 with
// a generic message, details only in the server log.
func (s *Server) respondOperationError(c *gin.Context, operation string, err error) {
	var br *badRequestError
	if errors.As(err, &br) {
		respondError(c, http.StatusBadRequest, codeBadRequest, br.msg)
		return
	}

	if de := entity.AsDomainError(err); de != nil {
		s.log.Info("operation rejected",
			zap.String("operation", operation),
			zap.String("code", string(de.Code)))
		respondError(c, http.StatusOK, string(de.Code), de.Message)
		return
	}

	s.log.Error("operation failed", zap.String("operation", operation), zap.Error(err))
	respondError(c, http.StatusInternalServerError, codeInternal, "internal error")
}

func respondData(c *gin.Context, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		respondError(c, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	c.JSON(http.StatusOK, Response{OK: true, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{OK: false, Error: &ResponseError{Code: code, Message: message}})
}

// badRequestError marks malformed arguments, distinct from domain errors.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequestErr(msg string) error { return &badRequestError{msg: msg} }

func decodeArgs(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return badRequestErr(fmt.Sprintf("invalid args: %v", err))
	}
	return nil
}
