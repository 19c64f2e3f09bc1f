package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/domain"
)

type CustomerRepo struct{ coll *mongo.Collection }

func NewCustomerRepo(db *mongo.Database) *CustomerRepo {
	return &CustomerRepo{coll: db.Collection(customersColl)}
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	doc, err := newCustomerDoc(c)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEmailTaken
	}
	return errors.Wrap(err, "insert customer")
}

func (r *CustomerRepo) ByID(ctx context.Context, id string) (*domain.Customer, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return r.findOne(ctx, filter)
}

func (r *CustomerRepo) ByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *CustomerRepo) findOne(ctx context.Context, filter bson.M) (*domain.Customer, error) {
	var doc customerDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find customer")
	}
	return doc.toDomain(), nil
}

func (r *CustomerRepo) Save(ctx context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	doc, err := newCustomerDoc(c)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return errors.Wrap(err, "replace customer")
	}
	if res.MatchedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}
