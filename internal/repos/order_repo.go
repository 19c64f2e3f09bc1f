package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID              string         `db:"id"`
	CustomerID      string         `db:"customer_id"`
	Products        sql.NullString `db:"products"`
	TotalAmount     float64        `db:"total_amount"`
	Status          string         `db:"status"`
	ShippingAddress sql.NullString `db:"shipping_address"`
	PaymentStatus   string         `db:"payment_status"`
	OrderDate       string         `db:"order_date"`
	ShippedDate     sql.NullString `db:"shipped_date"`
	DeliveredDate   sql.NullString `db:"delivered_date"`
	CancelledDate   sql.NullString `db:"cancelled_date"`
}

const orderCols = `id, customer_id, products, total_amount, status, shipping_address, payment_status,
  order_date, shipped_date, delivered_date, cancelled_date`

func newOrderRow(o *domain.Order) (orderRow, error) {
	items := o.Products
	if items == nil {
		items = []domain.LineItem{}
	}
	products, err := encodeJSON(items)
	if err != nil {
		return orderRow{}, err
	}
	addr, err := encodeJSON(o.ShippingAddress)
	if err != nil {
		return orderRow{}, err
	}
	return orderRow{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		Products:        products,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: addr,
		PaymentStatus:   string(o.PaymentStatus),
		OrderDate:       formatTime(o.OrderDate),
		ShippedDate:     formatTimePtr(o.ShippedDate),
		DeliveredDate:   formatTimePtr(o.DeliveredDate),
		CancelledDate:   formatTimePtr(o.CancelledDate),
	}, nil
}

func (r orderRow) toDomain() (domain.Order, error) {
	o := domain.Order{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		Products:      []domain.LineItem{},
		TotalAmount:   r.TotalAmount,
		Status:        domain.OrderStatus(r.Status),
		PaymentStatus: domain.PaymentStatus(r.PaymentStatus),
	}
	if err := decodeJSON(r.Products, &o.Products); err != nil {
		return domain.Order{}, err
	}
	if err := decodeJSON(r.ShippingAddress, &o.ShippingAddress); err != nil {
		return domain.Order{}, err
	}
	var err error
	if o.OrderDate, err = parseTime(r.OrderDate); err != nil {
		return domain.Order{}, err
	}
	if o.ShippedDate, err = parseTimePtr(r.ShippedDate); err != nil {
		return domain.Order{}, err
	}
	if o.DeliveredDate, err = parseTimePtr(r.DeliveredDate); err != nil {
		return domain.Order{}, err
	}
	if o.CancelledDate, err = parseTimePtr(r.CancelledDate); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	row, err := newOrderRow(o)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, `
	  INSERT INTO orders (`+orderCols+`)
	  VALUES (:id, :customer_id, :products, :total_amount, :status, :shipping_address, :payment_status,
	          :order_date, :shipped_date, :delivered_date, :cancelled_date)
	`, row)
	return errors.Wrap(err, "insert order")
}

func (r *OrderRepo) ByID(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	o, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByCustomer returns a customer's orders, oldest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+orderCols+`
		FROM orders
		WHERE customer_id = ?
		ORDER BY order_date, id
	`, customerID); err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// SetStatus writes o's status and status dates, provided the stored status
// is still from. Otherwise it returns domain.ErrStaleStatus.
func (r *OrderRepo) SetStatus(ctx context.Context, o *domain.Order, from domain.OrderStatus) error {
	if err := o.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, shipped_date = ?, delivered_date = ?, cancelled_date = ?
		WHERE id = ? AND status = ?
	`, string(o.Status), formatTimePtr(o.ShippedDate), formatTimePtr(o.DeliveredDate),
		formatTimePtr(o.CancelledDate), o.ID, string(from))
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrStaleStatus
	}
	return nil
}
