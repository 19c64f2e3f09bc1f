package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

type OrderService struct {
	Orders OrderStore
	Now    Clock
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{Orders: orders}
}

type LineItemInput struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Quantity  *int     `json:"quantity"`
	Price     *float64 `json:"price"`
}

type PlaceOrderInput struct {
	Products        []LineItemInput `json:"products"`
	ShippingAddress *domain.Address `json:"shipping_address"`
}

// Total sums price × quantity over the line items, rounded to cents.
func Total(items []domain.LineItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.Round(2).InexactFloat64()
}

// Place records a new order for customerID. Prices are taken from the
// request as given; stock is neither checked nor decremented.
func (s *OrderService) Place(ctx context.Context, customerID string, in PlaceOrderInput) (*domain.Order, error) {
	if len(in.Products) == 0 {
		return nil, domain.Required("products")
	}
	items := make([]domain.LineItem, 0, len(in.Products))
	for _, it := range in.Products {
		li, err := lineItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	o := &domain.Order{
		ID:              domain.NewID(),
		CustomerID:      customerID,
		Products:        items,
		TotalAmount:     Total(items),
		Status:          domain.StatusProcessing,
		ShippingAddress: in.ShippingAddress,
		PaymentStatus:   domain.PaymentPending,
		OrderDate:       s.Now.now(),
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func lineItem(in LineItemInput) (domain.LineItem, error) {
	productID, validProductID := validate.ID(in.ProductID)
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.LineItem{}, domain.Required("products.name")
	case in.Quantity == nil:
		return domain.LineItem{}, domain.Required("products.quantity")
	case in.Price == nil:
		return domain.LineItem{}, domain.Required("products.price")
	case productID != "" && !validProductID:
		return domain.LineItem{}, domain.Invalid("products.product_id", "is not a valid identifier")
	}
	return domain.LineItem{
		ProductID: productID,
		Name:      strings.TrimSpace(in.Name),
		Quantity:  *in.Quantity,
		Price:     *in.Price,
	}, nil
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.Orders.ListByCustomer(ctx, customerID)
}

// UpdateStatus moves an order along the status state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if strings.TrimSpace(status) == "" {
		return nil, domain.Required("status")
	}
	id, ok := validate.ID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o, err := s.Orders.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.Advance(domain.OrderStatus(strings.TrimSpace(status)), s.Now.now()); err != nil {
		return nil, err
	}
	if err := s.Orders.SetStatus(ctx, o, from); err != nil {
		return nil, err
	}
	return o, nil
}
