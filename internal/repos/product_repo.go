package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID                   string          `db:"id"`
	Name                 string          `db:"name"`
	Description          sql.NullString  `db:"description"`
	Category             string          `db:"category"`
	Price                float64         `db:"price"`
	Stock                int             `db:"stock"`
	IsAvailable          bool            `db:"is_available"`
	Popularity           sql.NullFloat64 `db:"popularity"`
	InventoryQuantity    int             `db:"inventory_quantity"`
	InventoryLastUpdated string          `db:"inventory_last_updated"`
	CreatedAt            string          `db:"created_at"`
	UpdatedAt            sql.NullString  `db:"updated_at"`
}

const productCols = `id, name, description, category, price, stock, is_available, popularity,
  inventory_quantity, inventory_last_updated, created_at, updated_at`

func newProductRow(p *domain.Product) productRow {
	row := productRow{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          sql.NullString{String: p.Description, Valid: p.Description != ""},
		Category:             p.Category,
		Price:                p.Price,
		Stock:                p.Stock,
		IsAvailable:          p.IsAvailable,
		InventoryQuantity:    p.Inventory.Quantity,
		InventoryLastUpdated: formatTime(p.Inventory.LastUpdated),
		CreatedAt:            formatTime(p.CreatedAt),
		UpdatedAt:            formatTimePtr(p.UpdatedAt),
	}
	if p.Popularity != nil {
		row.Popularity = sql.NullFloat64{Float64: *p.Popularity, Valid: true}
	}
	return row
}

func (r productRow) toDomain() (domain.Product, error) {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		IsAvailable: r.IsAvailable,
		Inventory:   domain.Inventory{Quantity: r.InventoryQuantity},
	}
	if r.Popularity.Valid {
		v := r.Popularity.Float64
		p.Popularity = &v
	}
	var err error
	if p.Inventory.LastUpdated, err = parseTime(r.InventoryLastUpdated); err != nil {
		return domain.Product{}, err
	}
	if p.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	if p.UpdatedAt, err = parseTimePtr(r.UpdatedAt); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO products (`+productCols+`)
	  VALUES (:id, :name, :description, :category, :price, :stock, :is_available, :popularity,
	          :inventory_quantity, :inventory_last_updated, :created_at, :updated_at)
	`, newProductRow(p))
	return errors.Wrap(err, "insert product")
}

// List returns every product, oldest first.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+productCols+` FROM products ORDER BY created_at, id`); err != nil {
		return nil, errors.Wrap(err, "select products")
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) ByID(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the product if present. Deleting a missing id is not an error.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return errors.Wrap(err, "delete product")
}
