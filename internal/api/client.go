package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crmd/internal/entity"
	"crmd/internal/store"
)

// Client is an HTTP client for the API boundary. The scheduled sweeps use it
// to re-enter the API on their timers instead of touching the store directly.
//
// All failures to complete a round trip surface as TRANSPORT_UNAVAILABLE
// domain errors; ok=false responses are reconstructed as the typed domain
// error the server reported.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL (e.g.
// "http://localhost:8080"). timeout bounds each round trip so no sweep
// blocks indefinitely on an unresponsive server.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Do executes a named operation and decodes the data payload into out.
// Pass a nil out to discard the payload.
func (c *Client) Do(ctx context.Context, operation string, args any, out any) error {
	req := Request{Operation: operation}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("marshal args: %w", err)
		}
		req.Args = raw
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return entity.NewTransportUnavailable(err)
	}
	defer httpResp.Body.Close()

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return entity.NewTransportUnavailable(fmt.Errorf("decode response: %w", err))
	}

	if !resp.OK {
		if resp.Error == nil {
			return entity.NewTransportUnavailable(fmt.Errorf("status %d with no error payload", httpResp.StatusCode))
		}
		return &entity.DomainError{
			Code:    entity.ErrorCode(resp.Error.Code),
			Message: resp.Error.Message,
		}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("decode data payload: %w", err)
		}
	}
	return nil
}

// Hello issues the trivial hello query the heartbeat probe uses.
func (c *Client) Hello(ctx context.Context) (string, error) {
	var data helloData
	if err := c.Do(ctx, "hello", nil, &data); err != nil {
		return "", err
	}
	return data.Hello, nil
}

// RestockLowStock invokes the restock sweep operation and returns the
// products whose stock was raised.
func (c *Client) RestockLowStock(ctx context.Context, threshold, target int) ([]entity.Product, error) {
	args := restockArgs{Threshold: &threshold, Target: &target}
	var data restockData
	if err := c.Do(ctx, "restockLowStock", args, &data); err != nil {
		return nil, err
	}
	return data.Updated, nil
}

// StaleOrders invokes the stale-order query and returns pending orders older
// than the given window in days.
func (c *Client) StaleOrders(ctx context.Context, windowDays int) ([]store.PendingOrder, error) {
	args := staleOrdersArgs{WindowDays: &windowDays}
	var data staleOrdersData
	if err := c.Do(ctx, "staleOrders", args, &data); err != nil {
		return nil, err
	}
	return data.Orders, nil
}
