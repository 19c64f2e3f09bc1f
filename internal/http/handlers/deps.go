package handlers

import (
	"storefront/internal/config"
	"storefront/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	CustomerHandler  *CustomerHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	OrderHandler     *OrderHandler
}

func NewDeps(stores services.Stores, cfg config.Config) *Deps {
	authSvc := services.NewAuthService(stores.Customers, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	customerSvc := services.NewCustomerService(stores.Customers, cfg.BcryptCost)
	catalogSvc := services.NewCatalogService(stores.Products)
	orderSvc := services.NewOrderService(stores.Orders)

	return &Deps{
		Auth:             authSvc,
		CustomerHandler:  &CustomerHandler{Auth: authSvc, Customers: customerSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Catalog: catalogSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
	}
}
