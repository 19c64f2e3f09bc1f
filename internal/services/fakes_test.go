package services_test

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// memCustomers is an in-memory CustomerStore with the same contract as the real stores.
type memCustomers struct {
	mu   sync.Mutex
	byID map[string]domain.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{byID: map[string]domain.Customer{}}
}

func (m *memCustomers) Create(_ context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.byID {
		if other.Email == c.Email {
			return domain.ErrEmailTaken
		}
	}
	m.byID[c.ID] = *c
	return nil
}

func (m *memCustomers) ByID(_ context.Context, id string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (m *memCustomers) ByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Email == domain.NormalizeEmail(email) {
			return &c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *memCustomers) Save(_ context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[c.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	for id, other := range m.byID {
		if id != c.ID && other.Email == c.Email {
			return domain.ErrEmailTaken
		}
	}
	m.byID[c.ID] = *c
	return nil
}

type memOrders struct {
	mu   sync.Mutex
	byID map[string]domain.Order
}

func newMemOrders() *memOrders {
	return &memOrders{byID: map[string]domain.Order{}}
}

func (m *memOrders) Create(_ context.Context, o *domain.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = *o
	return nil
}

func (m *memOrders) ByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memOrders) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.byID {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) SetStatus(_ context.Context, o *domain.Order, from domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[o.ID]
	if !ok || cur.Status != from {
		return domain.ErrStaleStatus
	}
	m.byID[o.ID] = *o
	return nil
}

type memProducts struct {
	mu    sync.Mutex
	items []domain.Product
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, *p)
	return nil
}

func (m *memProducts) List(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Product{}, m.items...), nil
}

func (m *memProducts) ByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}
