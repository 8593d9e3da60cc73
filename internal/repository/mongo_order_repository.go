package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prashant0268/shamyraweb/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOrderStore struct {
	collection *mongo.Collection
}

func NewMongoOrderStore(db *mongo.Database) OrderStore {
	return &mongoOrderStore{
		collection: db.Collection("orders"),
	}
}

// AppendOrder stamps the order with a generated ID and the server-side
// creation time before inserting. Orders are never updated afterwards.
func (m *mongoOrderStore) AppendOrder(ctx context.Context, order *domain.Order) (string, time.Time, error) {
	stamped := *order
	stamped.ID = uuid.NewString()
	stamped.CreatedAt = time.Now().UTC()

	if _, err := m.collection.InsertOne(ctx, &stamped); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to append order: %w", err)
	}

	return stamped.ID, stamped.CreatedAt, nil
}

func (m *mongoOrderStore) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order

	err := m.collection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// ListOrdersByUser returns the user's orders newest first.
func (m *mongoOrderStore) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

func (m *mongoOrderStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
