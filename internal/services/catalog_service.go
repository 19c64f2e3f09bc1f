package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

type CatalogService struct {
	Products ProductStore
	Now      Clock
}

func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{Products: products}
}

// ProductInput is the create payload. Pointer fields distinguish "absent" from zero.
type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	IsAvailable *bool    `json:"is_available"`
	Popularity  *float64 `json:"popularity"`
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.List(ctx)
}

// Get treats malformed ids as unknown products.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	id, ok := validate.ID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return s.Products.ByID(ctx, id)
}

// Create stores a new product. The inventory quantity starts at the stock level.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if in.Price == nil {
		return nil, domain.Required("price")
	}
	if in.Stock == nil {
		return nil, domain.Required("stock")
	}
	now := s.Now.now()
	p := &domain.Product{
		ID:          domain.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       *in.Price,
		Stock:       *in.Stock,
		IsAvailable: true,
		Popularity:  in.Popularity,
		Inventory:   domain.Inventory{LastUpdated: now, Quantity: *in.Stock},
		CreatedAt:   now,
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if err := s.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product whether or not it exists.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	id, ok := validate.ID(id)
	if !ok {
		return domain.Invalid("id", "is not a valid identifier")
	}
	return s.Products.Delete(ctx, id)
}

func (s *CatalogService) Availability(ctx context.Context, id string) (domain.Availability, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.AvailabilityOf(p), nil
}
