package engine

import (
	"context"

	"crmd/internal/entity"
)

// BulkError records one failed record of a batch, tagged with the record's
// 1-based position in the input.
type BulkError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BulkResult partitions a batch input by outcome: every record appears
// exactly once, either in Created or in Errors.
type BulkResult struct {
	Created []entity.Customer `json:"created"`
	Errors  []BulkError       `json:"errors"`
}

// BulkCreateCustomers processes records in input order, running CreateCustomer
// for each in isolation. A failure on record i is recorded and processing
// continues with record i+1: one bad row must not prevent valid rows from
// committing. Each record commits in its own transaction; no single
// transaction spans the batch.
func (e *Engine) BulkCreateCustomers(ctx context.Context, records []CustomerInput) *BulkResult {
	result := &BulkResult{
		Created: []entity.Customer{},
		Errors:  []BulkError{},
	}

	for i, rec := range records {
		c, err := e.CreateCustomer(ctx, rec)
		if err != nil {
			msg := err.Error()
			if de := entity.AsDomainError(err); de != nil {
				msg = de.Message
			}
			result.Errors = append(result.Errors, BulkError{
				Index:   i + 1,
				Message: msg,
			})
			continue
		}
		result.Created = append(result.Created, *c)
	}

	return result
}
