package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// transitions lists the statuses reachable from each status.
// Delivered and Cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  nil,
	StatusCancelled:  nil,
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// LineItem is a product snapshot inside an order. It is not checked
// against the live product record.
type LineItem struct {
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              string        `json:"_id"`
	CustomerID      string        `json:"customer_id"`
	Products        []LineItem    `json:"products"`
	TotalAmount     float64       `json:"total_amount"`
	Status          OrderStatus   `json:"status"`
	ShippingAddress *Address      `json:"shipping_address,omitempty"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	OrderDate       time.Time     `json:"order_date"`
	ShippedDate     *time.Time    `json:"shipped_date,omitempty"`
	DeliveredDate   *time.Time    `json:"delivered_date,omitempty"`
	CancelledDate   *time.Time    `json:"cancelled_date,omitempty"`
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return Required("_id")
	}
	if o.CustomerID == "" {
		return Required("customer_id")
	}
	for _, it := range o.Products {
		if strings.TrimSpace(it.Name) == "" {
			return Required("products.name")
		}
		if it.Quantity < 1 {
			return Invalid("products.quantity", "must be at least 1")
		}
		if it.Price < 0 {
			return Invalid("products.price", "must not be negative")
		}
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if !o.PaymentStatus.Valid() {
		return Invalid("payment_status", "must be one of Pending, Completed, Failed")
	}
	return nil
}

// Advance moves the order to status to, stamping the matching date.
func (o *Order) Advance(to OrderStatus, at time.Time) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, to) {
		return ErrIllegalTransition
	}
	o.Status = to
	switch to {
	case StatusShipped:
		o.ShippedDate = &at
	case StatusDelivered:
		o.DeliveredDate = &at
	case StatusCancelled:
		o.CancelledDate = &at
	}
	return nil
}
