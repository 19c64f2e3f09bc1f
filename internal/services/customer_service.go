package services

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

type CustomerService struct {
	Customers CustomerStore
	Cost      int
}

func NewCustomerService(customers CustomerStore, cost int) *CustomerService {
	return &CustomerService{Customers: customers, Cost: cost}
}

// CustomerPatch holds the fields a customer may change. Nil fields are left as is.
type CustomerPatch struct {
	Name     *string         `json:"name"`
	Email    *string         `json:"email"`
	Password *string         `json:"password"`
	Phone    *string         `json:"phone"`
	Address  *domain.Address `json:"address"`
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	id, ok := validate.ID(id)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return s.Customers.ByID(ctx, id)
}

// Update applies patch to the customer and stores the result. A new
// password is hashed before it is stored.
func (s *CustomerService) Update(ctx context.Context, id string, patch CustomerPatch) (*domain.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if c.Name, err = checkName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		if c.Email, err = checkEmail(*patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.Password != nil {
		if c.PasswordHash, err = hashPassword(*patch.Password, s.Cost); err != nil {
			return nil, err
		}
	}
	if patch.Phone != nil {
		phone, ok := validate.Phone(*patch.Phone)
		if !ok {
			return nil, domain.Invalid("phone", "is not a valid phone number")
		}
		c.Phone = phone
	}
	if patch.Address != nil {
		c.Address = patch.Address
	}
	if err := s.Customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
