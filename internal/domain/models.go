package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type Product struct {
	ID          string          `db:"id"`
	CategoryID  string          `db:"category_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Condition   string          `db:"condition"` // FIRST_HAND | SECOND_HAND
	Price       decimal.Decimal `db:"price"`
	ImagesJSON  string          `db:"images_json"`
	Active      bool            `db:"active"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`

	// Suggested price settings, edited from /admin/products.
	SuggestedPriceEnabled bool            `db:"suggested_price_enabled"`
	MinSuggestedPrice     decimal.Decimal `db:"min_suggested_price"`
}

// OffersEnabled reports whether shoppers may propose a price for p.
func (p Product) OffersEnabled() bool { return p.SuggestedPriceEnabled }
