package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

type customerRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Phone        sql.NullString `db:"phone"`
	Address      sql.NullString `db:"address"`
	OrderHistory sql.NullString `db:"order_history"`
	CreatedAt    string         `db:"created_at"`
}

const customerCols = `id, name, email, password_hash, phone, address, order_history, created_at`

func newCustomerRow(c *domain.Customer) (customerRow, error) {
	addr, err := encodeJSON(c.Address)
	if err != nil {
		return customerRow{}, err
	}
	history := c.OrderHistory
	if history == nil {
		history = []domain.OrderHistoryEntry{}
	}
	hist, err := encodeJSON(history)
	if err != nil {
		return customerRow{}, err
	}
	return customerRow{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Phone:        sql.NullString{String: c.Phone, Valid: c.Phone != ""},
		Address:      addr,
		OrderHistory: hist,
		CreatedAt:    formatTime(c.CreatedAt),
	}, nil
}

func (r customerRow) toDomain() (*domain.Customer, error) {
	c := &domain.Customer{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Phone:        r.Phone.String,
		OrderHistory: []domain.OrderHistoryEntry{},
	}
	if err := decodeJSON(r.Address, &c.Address); err != nil {
		return nil, err
	}
	if err := decodeJSON(r.OrderHistory, &c.OrderHistory); err != nil {
		return nil, err
	}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = created
	return c, nil
}

// Create inserts a new customer. A taken email yields domain.ErrEmailTaken.
func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	row, err := newCustomerRow(c)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, `
	  INSERT INTO customers (`+customerCols+`)
	  VALUES (:id, :name, :email, :password_hash, :phone, :address, :order_history, :created_at)
	`, row)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return errors.Wrap(err, "insert customer")
}

func (r *CustomerRepo) ByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
}

func (r *CustomerRepo) ByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerCols+` FROM customers WHERE email = ?`, domain.NormalizeEmail(email))
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, arg string) (*domain.Customer, error) {
	var row customerRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, errors.Wrap(err, "select customer")
	}
	return row.toDomain()
}

// Save replaces every mutable field of an existing customer.
func (r *CustomerRepo) Save(ctx context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	row, err := newCustomerRow(c)
	if err != nil {
		return err
	}
	res, err := r.db.NamedExecContext(ctx, `
	  UPDATE customers
	  SET name = :name, email = :email, password_hash = :password_hash, phone = :phone,
	      address = :address, order_history = :order_history
	  WHERE id = :id
	`, row)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return errors.Wrap(err, "update customer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}
