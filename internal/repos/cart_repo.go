package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"offerbytes/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartLineRow struct {
	ID              string              `db:"id"`
	CartID          string              `db:"cart_id"`
	ProductID       string              `db:"product_id"`
	Title           string              `db:"title"`
	Condition       string              `db:"condition"`
	Qty             int                 `db:"qty"`
	PriceAtAdd      decimal.Decimal     `db:"price_at_add"`
	SuggestedPrice  decimal.NullDecimal `db:"suggested_price"`
	OriginalPrice   decimal.NullDecimal `db:"original_price"`
	PriceExpiration sql.NullInt64       `db:"price_expiration"`
	OfferToken      sql.NullString      `db:"offer_token"`
}

func (row cartLineRow) toDomain() domain.CartLine {
	l := domain.CartLine{
		ID:        row.ID,
		CartID:    row.CartID,
		ProductID: row.ProductID,
		Title:     row.Title,
		Condition: row.Condition,
		Qty:       row.Qty,
		UnitPrice: row.PriceAtAdd,
	}
	if row.SuggestedPrice.Valid && row.PriceExpiration.Valid {
		l.Override = &domain.CartLineOverride{
			SuggestedPrice: row.SuggestedPrice.Decimal,
			OriginalPrice:  row.OriginalPrice.Decimal,
			ExpiresAt:      time.Unix(row.PriceExpiration.Int64, 0),
			Token:          row.OfferToken.String,
		}
	}
	return l
}

type overrideCols struct {
	suggested decimal.NullDecimal
	original  decimal.NullDecimal
	expires   sql.NullInt64
	token     sql.NullString
}

func colsFor(ov *domain.CartLineOverride) overrideCols {
	if ov == nil {
		return overrideCols{}
	}
	return overrideCols{
		suggested: decimal.NewNullDecimal(ov.SuggestedPrice),
		original:  decimal.NewNullDecimal(ov.OriginalPrice),
		expires:   sql.NullInt64{Int64: ov.ExpiresAt.Unix(), Valid: true},
		token:     sql.NullString{String: ov.Token, Valid: ov.Token != ""},
	}
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	_, err = r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// Lines returns the cart lines in insertion order.
func (r *CartRepo) Lines(cartID string) ([]domain.CartLine, error) {
	rows := []cartLineRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.id, ci.cart_id, ci.product_id, p.title, p.condition, ci.qty, ci.price_at_add,
	         ci.suggested_price, ci.original_price, ci.price_expiration, ci.offer_token
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.rowid
	`, cartID); err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpsertItem adds qty to the first plain (non-offered) line of the product,
// creating one when none exists.
func (r *CartRepo) UpsertItem(cartID, productID string, qty int, price decimal.Decimal) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var lineID string
	err = tx.Get(&lineID, `
		SELECT id FROM cart_items
		WHERE cart_id = ? AND product_id = ? AND suggested_price IS NULL
		ORDER BY rowid LIMIT 1
	`, cartID, productID)
	switch {
	case err == nil:
		if _, err := tx.Exec(`UPDATE cart_items SET qty = qty + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, qty, lineID); err != nil {
			return err
		}
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`
			INSERT INTO cart_items(id,cart_id,product_id,qty,price_at_add,created_at)
			VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
		`, uuid.NewString(), cartID, productID, qty, price); err != nil {
			return err
		}
	default:
		return err
	}
	return tx.Commit()
}

// InsertOfferLine stores a new line priced at the accepted offer.
func (r *CartRepo) InsertOfferLine(cartID, productID string, qty int, ov domain.CartLineOverride) (string, error) {
	id := uuid.NewString()
	c := colsFor(&ov)
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,cart_id,product_id,qty,price_at_add,
		                       suggested_price,original_price,price_expiration,offer_token,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, id, cartID, productID, qty, ov.SuggestedPrice, c.suggested, c.original, c.expires, c.token)
	if err != nil {
		return "", err
	}
	return id, nil
}

// SaveLine writes back the effective price and override state of a line.
func (r *CartRepo) SaveLine(l domain.CartLine) error {
	c := colsFor(l.Override)
	_, err := r.db.Exec(`
		UPDATE cart_items
		SET price_at_add = ?, suggested_price = ?, original_price = ?, price_expiration = ?,
		    offer_token = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, l.UnitPrice, c.suggested, c.original, c.expires, c.token, l.ID)
	return err
}

// RemoveLine deletes a line of the cart and returns it as it was stored.
func (r *CartRepo) RemoveLine(cartID, lineID string) (domain.CartLine, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.CartLine{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row cartLineRow
	if err := tx.Get(&row, `
	  SELECT ci.id, ci.cart_id, ci.product_id, p.title, p.condition, ci.qty, ci.price_at_add,
	         ci.suggested_price, ci.original_price, ci.price_expiration, ci.offer_token
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.cart_id = ? AND ci.id = ?
	`, cartID, lineID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartLine{}, ErrNotFound
		}
		return domain.CartLine{}, err
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE id = ?`, lineID); err != nil {
		return domain.CartLine{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.CartLine{}, err
	}
	return row.toDomain(), nil
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
