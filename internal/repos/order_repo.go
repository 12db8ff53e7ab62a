package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID            string          `db:"id"`
	SessionID     string          `db:"session_id"`
	CustomerName  string          `db:"customer_name"`
	CustomerEmail string          `db:"customer_email"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	CreatedAt     string          `db:"created_at"`
}

// ---------- Order detail (used by /order/:id) ----------
type OrderRow struct {
	ID          string          `db:"id"`
	SessionID   string          `db:"session_id"`
	UserID      string          `db:"user_id"`
	Fulfillment string          `db:"fulfillment"`
	Customer    string          `db:"customer_name"`
	Email       string          `db:"customer_email"`
	Total       decimal.Decimal `db:"total"`
	Status      string          `db:"status"`
	CreatedAt   string          `db:"created_at"`
}

type OrderItemRow struct {
	Title     string          `db:"title"`
	Condition string          `db:"condition"`
	Qty       int             `db:"qty"`
	Price     decimal.Decimal `db:"price"`
	Offered   bool            `db:"offered"`
	Subtotal  decimal.Decimal `db:"subtotal"`
}

// OrderLine is what checkout writes for each cart line.
type OrderLine struct {
	ProductID string
	Qty       int
	Price     decimal.Decimal
	Condition string
	Offered   bool
}

// Create inserts the order header and its lines in one transaction.
func (r *OrderRepo) Create(orderID, sessionID, fulfillment, name, email string, total decimal.Decimal, lines []OrderLine) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, session_id, fulfillment, customer_name, customer_email, total, status, created_at)
	  VALUES
	    (?,  ?,          ?,           ?,             ?,              ?,     'PLACED', CURRENT_TIMESTAMP)
	`, orderID, sessionID, fulfillment, name, email, total); err != nil {
		return err
	}
	for i, l := range lines {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, line_no, product_id, qty, price, condition, offered)
		  VALUES(?, ?, ?, ?, ?, ?, ?)
		`, orderID, i+1, l.ProductID, l.Qty, l.Price, l.Condition, l.Offered); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ---------- Used by order page/admin ----------

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
		SELECT o.id, o.session_id, COALESCE(s.user_id,'') AS user_id, o.fulfillment, o.customer_name, o.customer_email, o.total, o.status, o.created_at
		FROM orders o
		LEFT JOIN sessions s ON s.id = o.session_id
		WHERE o.id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT p.title, oi.condition, oi.qty, oi.price, oi.offered, (oi.qty * oi.price) AS subtotal
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.line_no
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, customer_name, customer_email, total, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByUser returns orders for a given user via session linkage.
func (r *OrderRepo) ListByUser(userID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT o.id, o.session_id, o.customer_name, o.customer_email, o.total, o.status, o.created_at
		FROM orders o
		JOIN sessions s ON s.id = o.session_id
		WHERE s.user_id = ?
		ORDER BY datetime(o.created_at) DESC
	`, userID)
	return out, err
}

// ListBySession returns orders tied to a given session id (helps show anon or pre-login orders).
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderSummary, error) {
	var out []OrderSummary
	err := r.db.Select(&out, `
		SELECT id, session_id, customer_name, customer_email, total, status, created_at
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
