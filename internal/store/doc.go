// Package store provides SQLite-backed durable storage for CRM entities.
//
// The store holds three record kinds:
//   - Customers: unique-email contact records
//   - Products: priced catalog items with stock counts
//   - Orders: customer-to-product links with derived totals
//
// # Critical Patterns
//
// CP-1: Email Uniqueness Backstop
//   - UNIQUE index on customers.email
//   - The engine pre-checks for a friendly error; the index is the
//     correctness backstop under concurrent writers
//
// CP-2: Transactional Order Writes
//   - An order row and its order_products rows commit together or not at all
//   - Reference resolution runs inside the same transaction, so a concurrent
//     product deletion fails the whole write instead of dangling
//
// CP-3: Deterministic Query Results
//   - Multi-row queries include an explicit ORDER BY
//   - Reads return empty slices, never nil
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity (customer cascade)
//
// Monetary columns are stored as decimal strings and handled with
// shopspring/decimal; no float arithmetic touches prices or totals.
package store
