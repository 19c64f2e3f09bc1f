package domain

import (
	"strings"
	"time"
)

type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Zip     string `json:"zip,omitempty" bson:"zip,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// HistoryStatus is the status recorded on a customer's order history entry.
// It is a separate vocabulary from OrderStatus.
type HistoryStatus string

const (
	HistoryPending   HistoryStatus = "Pending"
	HistoryShipped   HistoryStatus = "Shipped"
	HistoryDelivered HistoryStatus = "Delivered"
	HistoryCancelled HistoryStatus = "Cancelled"
)

func (s HistoryStatus) Valid() bool {
	switch s {
	case HistoryPending, HistoryShipped, HistoryDelivered, HistoryCancelled:
		return true
	}
	return false
}

type OrderHistoryEntry struct {
	OrderID     string        `json:"order_id,omitempty"`
	OrderDate   time.Time     `json:"order_date"`
	Status      HistoryStatus `json:"status,omitempty"`
	TotalAmount float64       `json:"total_amount"`
}

type Customer struct {
	ID           string              `json:"_id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	PasswordHash string              `json:"-"`
	Phone        string              `json:"phone,omitempty"`
	Address      *Address            `json:"address,omitempty"`
	OrderHistory []OrderHistoryEntry `json:"order_history"`
	CreatedAt    time.Time           `json:"created_at"`
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate enforces the persisted shape of a customer record.
func (c *Customer) Validate() error {
	if c.ID == "" {
		return Required("_id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return Required("name")
	}
	if c.Email == "" {
		return Required("email")
	}
	if c.PasswordHash == "" {
		return Required("password")
	}
	for _, h := range c.OrderHistory {
		if h.Status != "" && !h.Status.Valid() {
			return Invalid("order_history.status", "must be one of Pending, Shipped, Delivered, Cancelled")
		}
	}
	return nil
}
