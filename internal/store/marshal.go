package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Timestamps are persisted as RFC 3339 UTC text so lexical comparison in SQL
// matches chronological comparison.
const timeLayout = time.RFC3339Nano

func marshalTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func unmarshalTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// Monetary values are persisted as decimal strings (e.g. "499.99") and never
// pass through floats.
func marshalDecimal(d decimal.Decimal) string {
	return d.String()
}

func unmarshalDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}
