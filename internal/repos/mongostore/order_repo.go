package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/domain"
)

type OrderRepo struct{ coll *mongo.Collection }

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{coll: db.Collection(ordersColl)}
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	doc, err := newOrderDoc(o)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return errors.Wrap(err, "insert order")
}

func (r *OrderRepo) ByID(ctx context.Context, id string) (*domain.Order, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	var doc orderDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	o := doc.toDomain()
	return &o, nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	out := []domain.Order{}
	customer, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return out, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"customer_id": customer}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// SetStatus is a compare-and-set on the stored status.
func (r *OrderRepo) SetStatus(ctx context.Context, o *domain.Order, from domain.OrderStatus) error {
	if err := o.Validate(); err != nil {
		return err
	}
	filter, ok := byID(o.ID)
	if !ok {
		return domain.ErrOrderNotFound
	}
	filter["status"] = from
	res, err := r.coll.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{
			"status":         o.Status,
			"shipped_date":   o.ShippedDate,
			"delivered_date": o.DeliveredDate,
			"cancelled_date": o.CancelledDate,
		}},
	)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	if res.MatchedCount == 0 {
		return domain.ErrStaleStatus
	}
	return nil
}
