// Package mongostore implements the storefront stores on MongoDB collections.
package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/internal/services"
)

const (
	customersColl = "customers"
	ordersColl    = "orders"
	productsColl  = "products"
)

// Open connects to uri, verifies the connection and ensures indexes on dbName.
// The caller disconnects the returned client on shutdown.
func Open(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "ping mongo")
	}
	db := client.Database(dbName)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, db, nil
}

// EnsureIndexes creates the unique email index and the order lookup index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(customersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return errors.Wrap(err, "customers email index")
	}
	_, err = db.Collection(ordersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customer_id", Value: 1}, {Key: "order_date", Value: 1}},
		Options: options.Index().SetName("customer_orders"),
	})
	return errors.Wrap(err, "orders customer index")
}

// Stores bundles the Mongo-backed stores for the services layer.
func Stores(db *mongo.Database) services.Stores {
	return services.Stores{
		Customers: NewCustomerRepo(db),
		Products:  NewProductRepo(db),
		Orders:    NewOrderRepo(db),
	}
}
