package services

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// CustomerStore persists customers. Lookups of unknown records return
// domain.ErrCustomerNotFound; email collisions return domain.ErrEmailTaken.
type CustomerStore interface {
	Create(ctx context.Context, c *domain.Customer) error
	ByID(ctx context.Context, id string) (*domain.Customer, error)
	ByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Save(ctx context.Context, c *domain.Customer) error
}

type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	ByID(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	ByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	// SetStatus persists o's status fields only if the stored status is still from.
	SetStatus(ctx context.Context, o *domain.Order, from domain.OrderStatus) error
}

type Stores struct {
	Customers CustomerStore
	Products  ProductStore
	Orders    OrderStore
}

// Clock returns the current time; nil means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
