package domain

import (
	"strings"
	"time"
)

type Inventory struct {
	LastUpdated time.Time `json:"last_updated" bson:"last_updated"`
	Quantity    int       `json:"quantity" bson:"quantity"`
}

type Product struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	IsAvailable bool       `json:"is_available"`
	Popularity  *float64   `json:"popularity,omitempty"`
	Inventory   Inventory  `json:"inventory"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (p *Product) Validate() error {
	switch {
	case p.ID == "":
		return Required("_id")
	case strings.TrimSpace(p.Name) == "":
		return Required("name")
	case strings.TrimSpace(p.Category) == "":
		return Required("category")
	case p.Price < 0:
		return Invalid("price", "must not be negative")
	case p.Stock < 0:
		return Invalid("stock", "must not be negative")
	case p.Inventory.Quantity < 0:
		return Invalid("inventory.quantity", "must not be negative")
	}
	return nil
}

// Availability is a read-only view of a product's inventory level.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

const lowStockThreshold = 5

// AvailabilityOf classifies the product's inventory quantity.
func AvailabilityOf(p *Product) Availability {
	qty := p.Inventory.Quantity
	if !p.IsAvailable {
		return Availability{Status: "OUT_OF_STOCK", Qty: qty}
	}
	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return Availability{Status: status, Qty: qty}
}
