package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/domain"
)

// Stored document shapes. Identifiers are native ObjectIDs here and
// 24-character hex strings in the domain.

type customerDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	Phone        string             `bson:"phone,omitempty"`
	Address      *domain.Address    `bson:"address,omitempty"`
	OrderHistory []historyDoc       `bson:"order_history"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type historyDoc struct {
	OrderID     *primitive.ObjectID  `bson:"order_id,omitempty"`
	OrderDate   time.Time            `bson:"order_date"`
	Status      domain.HistoryStatus `bson:"status,omitempty"`
	TotalAmount float64              `bson:"total_amount"`
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	IsAvailable bool               `bson:"is_available"`
	Popularity  *float64           `bson:"popularity,omitempty"`
	Inventory   domain.Inventory   `bson:"inventory"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty"`
}

type lineItemDoc struct {
	ProductID *primitive.ObjectID `bson:"product_id,omitempty"`
	Name      string              `bson:"name"`
	Quantity  int                 `bson:"quantity"`
	Price     float64             `bson:"price"`
}

type orderDoc struct {
	ID              primitive.ObjectID   `bson:"_id"`
	CustomerID      primitive.ObjectID   `bson:"customer_id"`
	Products        []lineItemDoc        `bson:"products"`
	TotalAmount     float64              `bson:"total_amount"`
	Status          domain.OrderStatus   `bson:"status"`
	ShippingAddress *domain.Address      `bson:"shipping_address,omitempty"`
	PaymentStatus   domain.PaymentStatus `bson:"payment_status"`
	OrderDate       time.Time            `bson:"order_date"`
	ShippedDate     *time.Time           `bson:"shipped_date,omitempty"`
	DeliveredDate   *time.Time           `bson:"delivered_date,omitempty"`
	CancelledDate   *time.Time           `bson:"cancelled_date,omitempty"`
}

func objectID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, domain.Invalid(field, "is not a valid identifier")
	}
	return id, nil
}

// optionalID maps "" to nil.
func optionalID(field, hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := objectID(field, hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func hexOf(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

// byID reports false for ids that cannot name a stored document.
func byID(id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid}, true
}

func newCustomerDoc(c *domain.Customer) (customerDoc, error) {
	id, err := objectID("_id", c.ID)
	if err != nil {
		return customerDoc{}, err
	}
	history := make([]historyDoc, 0, len(c.OrderHistory))
	for _, h := range c.OrderHistory {
		orderID, err := optionalID("order_history.order_id", h.OrderID)
		if err != nil {
			return customerDoc{}, err
		}
		history = append(history, historyDoc{
			OrderID:     orderID,
			OrderDate:   h.OrderDate,
			Status:      h.Status,
			TotalAmount: h.TotalAmount,
		})
	}
	return customerDoc{
		ID:           id,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Phone:        c.Phone,
		Address:      c.Address,
		OrderHistory: history,
		CreatedAt:    c.CreatedAt,
	}, nil
}

func (d customerDoc) toDomain() *domain.Customer {
	c := &domain.Customer{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        d.Phone,
		Address:      d.Address,
		OrderHistory: make([]domain.OrderHistoryEntry, 0, len(d.OrderHistory)),
		CreatedAt:    d.CreatedAt,
	}
	for _, h := range d.OrderHistory {
		c.OrderHistory = append(c.OrderHistory, domain.OrderHistoryEntry{
			OrderID:     hexOf(h.OrderID),
			OrderDate:   h.OrderDate,
			Status:      h.Status,
			TotalAmount: h.TotalAmount,
		})
	}
	return c
}

func newProductDoc(p *domain.Product) (productDoc, error) {
	id, err := objectID("_id", p.ID)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable,
		Popularity:  p.Popularity,
		Inventory:   p.Inventory,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Stock:       d.Stock,
		IsAvailable: d.IsAvailable,
		Popularity:  d.Popularity,
		Inventory:   d.Inventory,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newOrderDoc(o *domain.Order) (orderDoc, error) {
	id, err := objectID("_id", o.ID)
	if err != nil {
		return orderDoc{}, err
	}
	customerID, err := objectID("customer_id", o.CustomerID)
	if err != nil {
		return orderDoc{}, err
	}
	items := make([]lineItemDoc, 0, len(o.Products))
	for _, it := range o.Products {
		productID, err := optionalID("products.product_id", it.ProductID)
		if err != nil {
			return orderDoc{}, err
		}
		items = append(items, lineItemDoc{
			ProductID: productID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return orderDoc{
		ID:              id,
		CustomerID:      customerID,
		Products:        items,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		PaymentStatus:   o.PaymentStatus,
		OrderDate:       o.OrderDate,
		ShippedDate:     o.ShippedDate,
		DeliveredDate:   o.DeliveredDate,
		CancelledDate:   o.CancelledDate,
	}, nil
}

func (d orderDoc) toDomain() domain.Order {
	o := domain.Order{
		ID:              d.ID.Hex(),
		CustomerID:      d.CustomerID.Hex(),
		Products:        make([]domain.LineItem, 0, len(d.Products)),
		TotalAmount:     d.TotalAmount,
		Status:          d.Status,
		ShippingAddress: d.ShippingAddress,
		PaymentStatus:   d.PaymentStatus,
		OrderDate:       d.OrderDate,
		ShippedDate:     d.ShippedDate,
		DeliveredDate:   d.DeliveredDate,
		CancelledDate:   d.CancelledDate,
	}
	for _, it := range d.Products {
		o.Products = append(o.Products, domain.LineItem{
			ProductID: hexOf(it.ProductID),
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return o
}
