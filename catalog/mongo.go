// catalog/mongo.go
package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chenyinghua/firework-shop/models"
)

// MongoService is a self-hosted backend over MongoDB, for deployments that
// do not use the hosted Supabase project. Products live in the products
// collection with their counters inline; orders are appended to the orders
// collection.
type MongoService struct {
	Products *mongo.Collection
	Orders   *mongo.Collection
}

// NewMongoService creates a service over the named database.
func NewMongoService(client *mongo.Client, database string) *MongoService {
	db := client.Database(database)
	return &MongoService{
		Products: db.Collection("products"),
		Orders:   db.Collection("orders"),
	}
}

// FetchProducts retrieves all products.
func (m *MongoService) FetchProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := m.Products.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// IncrementView bumps the stored view counter for a product.
func (m *MongoService) IncrementView(ctx context.Context, productID string) error {
	return m.increment(ctx, productID, "view_count")
}

// IncrementCartAdd bumps the stored cart-add counter for a product.
func (m *MongoService) IncrementCartAdd(ctx context.Context, productID string) error {
	return m.increment(ctx, productID, "cart_add_count")
}

func (m *MongoService) increment(ctx context.Context, productID, field string) error {
	result, err := m.Products.UpdateOne(ctx,
		bson.M{"id": productID},
		bson.M{"$inc": bson.M{field: 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s not found", productID)
	}
	return nil
}

// InsertOrder appends the sheet to the orders collection.
func (m *MongoService) InsertOrder(ctx context.Context, sheet models.OrderSheet) error {
	_, err := m.Orders.InsertOne(ctx, sheet)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}
