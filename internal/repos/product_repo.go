package repos

import (
	"offerbytes/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, category_id, title, COALESCE(description,'') AS description, condition, price,
    COALESCE(images_json,'') AS images_json, active,
    suggested_price_enabled, min_suggested_price,
    created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) ListByCategory(catID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT`+productCols+`
  FROM products
  WHERE category_id = ? AND active = 1
  ORDER BY created_at DESC, id
  LIMIT ? OFFSET ?
`, catID, limit, offset)
	return out, err
}

// ListAll returns every product, active or not, for the admin settings page.
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT`+productCols+` FROM products ORDER BY title`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// UpdateOfferSettings stores the suggested price switch and minimum for a product.
func (r *ProductRepo) UpdateOfferSettings(id string, enabled bool, min decimal.Decimal) error {
	res, err := r.db.Exec(`
		UPDATE products
		SET suggested_price_enabled = ?, min_suggested_price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, enabled, min, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
