// Package orderstore provides the SQLite-backed order store.
//
// WAL mode is enabled on Open so status reads never block order writes.
// The driver is modernc.org/sqlite (pure Go, no CGO), registered under the
// name "sqlite".
package orderstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ordercraft/ordercraft/internal/domain"
	"github.com/shopspring/decimal"
	sqlite "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Orders and their lines live
// in separate tables; money columns store decimal strings, never floats.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    order_id         TEXT PRIMARY KEY,
    customer_name    TEXT,
    customer_email   TEXT,
    customer_phone   TEXT,
    customer_address TEXT,
    total_amount     TEXT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'pending',
    created_at       TEXT NOT NULL,
    notes            TEXT
);

CREATE TABLE IF NOT EXISTS order_items (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id     TEXT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
    product_id   TEXT NOT NULL,
    product_name TEXT NOT NULL,
    quantity     INTEGER NOT NULL,
    unit_price   TEXT NOT NULL,
    total_price  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// SQLite extended result codes for primary-key and unique violations.
const (
	codeConstraintPrimaryKey = 1555
	codeConstraintUnique     = 2067
)

// Store implements domain.OrderStore on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	// The pure-Go driver takes pragmas as DSN parameters. busy_timeout
	// waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("orderstore: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("orderstore: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts the order and its lines in one transaction. A duplicate
// order id surfaces as domain.ErrKeyConflict; the primary key makes the
// insert-if-absent atomic.
func (s *Store) Put(ctx context.Context, o *domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var c domain.CustomerInfo
	if o.Customer != nil {
		c = *o.Customer
	}
	const insertOrder = `
		INSERT INTO orders
			(order_id, customer_name, customer_email, customer_phone, customer_address,
			 total_amount, status, created_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, insertOrder,
		o.OrderID,
		nullableString(c.Name),
		nullableString(c.Email),
		nullableString(c.Phone),
		nullableString(c.Address),
		o.TotalAmount.String(),
		string(o.Status),
		o.CreatedAt.UTC().Format(time.RFC3339Nano),
		nullableString(o.Notes),
	)
	if err != nil {
		if isConflict(err) {
			return fmt.Errorf("orderstore: put %s: %w", o.OrderID, domain.ErrKeyConflict)
		}
		return fmt.Errorf("orderstore: put %s: %w", o.OrderID, err)
	}

	const insertItem = `
		INSERT INTO order_items
			(order_id, product_id, product_name, quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			o.OrderID, it.ProductID, it.ProductName, it.Quantity,
			it.UnitPrice.String(), it.TotalPrice.String(),
		); err != nil {
			return fmt.Errorf("orderstore: put line for %s: %w", o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderstore: commit %s: %w", o.OrderID, err)
	}
	return nil
}

// Get loads one order with its lines in insertion order.
func (s *Store) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	const q = `
		SELECT order_id, customer_name, customer_email, customer_phone, customer_address,
		       total_amount, status, created_at, notes
		FROM   orders
		WHERE  order_id = ?`
	o, err := scanOrder(s.db.QueryRowContext(ctx, q, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("orderstore: order %s: %w", orderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("orderstore: get %s: %w", orderID, err)
	}
	if err := s.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListRecent returns the newest orders first. A non-positive limit means 10.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
		SELECT order_id, customer_name, customer_email, customer_phone, customer_address,
		       total_amount, status, created_at, notes
		FROM   orders
		ORDER  BY created_at DESC, order_id DESC
		LIMIT  ?`
	return s.queryOrders(ctx, q, limit)
}

// ListByStatus returns every order in the given status, newest first.
func (s *Store) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	const q = `
		SELECT order_id, customer_name, customer_email, customer_phone, customer_address,
		       total_amount, status, created_at, notes
		FROM   orders
		WHERE  status = ?
		ORDER  BY created_at DESC, order_id DESC`
	return s.queryOrders(ctx, q, string(status))
}

// UpdateStatus moves an order to the next status, enforcing the allowed
// transitions. Unknown ids return domain.ErrNotFound, disallowed moves
// domain.ErrInvalidTransition.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE order_id = ?`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("orderstore: order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("orderstore: read status of %s: %w", orderID, err)
	}
	if !domain.OrderStatus(current).CanTransitionTo(status) {
		return fmt.Errorf("orderstore: %s from %s to %s: %w", orderID, current, status, domain.ErrInvalidTransition)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE order_id = ?`, string(status), orderID); err != nil {
		return fmt.Errorf("orderstore: update status of %s: %w", orderID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderstore: commit status of %s: %w", orderID, err)
	}
	return nil
}

// Stats summarises the stored orders. Revenue and the average order value
// are decimal sums over every non-rejected order.
func (s *Store) Stats(ctx context.Context) (*domain.OrderStats, error) {
	stats := &domain.OrderStats{
		StatusCounts:      make(map[domain.OrderStatus]int),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("orderstore: stats counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("orderstore: stats counts: %w", err)
		}
		stats.StatusCounts[domain.OrderStatus(status)] = n
		stats.TotalOrders += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orderstore: stats counts: %w", err)
	}

	amounts, err := s.db.QueryContext(ctx,
		`SELECT total_amount FROM orders WHERE status != ?`, string(domain.StatusRejected))
	if err != nil {
		return nil, fmt.Errorf("orderstore: stats revenue: %w", err)
	}
	defer amounts.Close()
	counted := 0
	for amounts.Next() {
		var raw string
		if err := amounts.Scan(&raw); err != nil {
			return nil, fmt.Errorf("orderstore: stats revenue: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("orderstore: stats revenue: bad amount %q: %w", raw, err)
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(amount)
		counted++
	}
	if err := amounts.Err(); err != nil {
		return nil, fmt.Errorf("orderstore: stats revenue: %w", err)
	}
	if counted > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(int64(counted))).Round(2)
	}
	return stats, nil
}

func (s *Store) queryOrders(ctx context.Context, q string, args ...any) ([]*domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("orderstore: list: %w", err)
	}
	defer rows.Close()

	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("orderstore: list: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orderstore: list: %w", err)
	}
	for _, o := range out {
		if err := s.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) loadItems(ctx context.Context, o *domain.Order) error {
	const q = `
		SELECT product_id, product_name, quantity, unit_price, total_price
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY id`
	rows, err := s.db.QueryContext(ctx, q, o.OrderID)
	if err != nil {
		return fmt.Errorf("orderstore: items of %s: %w", o.OrderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderLine
		var unitPrice, totalPrice string
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &unitPrice, &totalPrice); err != nil {
			return fmt.Errorf("orderstore: items of %s: %w", o.OrderID, err)
		}
		if it.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return fmt.Errorf("orderstore: items of %s: bad unit price %q: %w", o.OrderID, unitPrice, err)
		}
		if it.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
			return fmt.Errorf("orderstore: items of %s: bad total price %q: %w", o.OrderID, totalPrice, err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

// rowScanner lets scanOrder work for both QueryRow and Query results.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var name, email, phone, addr, notes sql.NullString
	var totalAmount, status, createdAt string
	err := row.Scan(&o.OrderID, &name, &email, &phone, &addr, &totalAmount, &status, &createdAt, &notes)
	if err != nil {
		return nil, err
	}

	c := domain.CustomerInfo{
		Name:    name.String,
		Email:   email.String,
		Phone:   phone.String,
		Address: addr.String,
	}
	if !c.Empty() {
		o.Customer = &c
	}
	if o.TotalAmount, err = decimal.NewFromString(totalAmount); err != nil {
		return nil, fmt.Errorf("bad total amount %q: %w", totalAmount, err)
	}
	o.Status = domain.OrderStatus(status)
	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	o.Notes = notes.String
	return &o, nil
}

// nullableString returns nil for empty strings so SQLite stores NULL
// instead of empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isConflict reports whether err is a primary-key or unique violation.
func isConflict(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == codeConstraintPrimaryKey || code == codeConstraintUnique
	}
	return false
}
