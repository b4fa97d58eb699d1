package storage

import (
	"context"
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "orders"

type MongoOrderStore struct {
	orders *mongo.Collection
}

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{
		orders: db.Collection(ordersCollection),
	}
}

func (s *MongoOrderStore) SaveMeta(ctx context.Context, orderID string, meta models.OrderMeta) (models.OrderMeta, bool, error) {
	filter := bson.M{"_id": orderID, "meta": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"meta": meta}}

	_, err := s.orders.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err == nil {
		return meta, true, nil
	}

	// The upsert collides on _id when the order already carries metadata.
	if !mongo.IsDuplicateKeyError(err) {
		return models.OrderMeta{}, false, fmt.Errorf("failed to save order meta: %w", err)
	}

	existing, err := s.GetMeta(ctx, orderID)
	if err != nil {
		return models.OrderMeta{}, false, err
	}

	return existing, false, nil
}

func (s *MongoOrderStore) GetMeta(ctx context.Context, orderID string) (models.OrderMeta, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return models.OrderMeta{}, err
	}
	if order.Meta.Empty() {
		return models.OrderMeta{}, models.ErrNotFound
	}

	return order.Meta, nil
}

func (s *MongoOrderStore) Complete(ctx context.Context, completion models.OrderCompletion) error {
	set := bson.M{"status": models.OrderStatusProcessing}
	if txID := completion.TransactionID(); txID != "" {
		set["transactionId"] = txID
	}

	update := bson.M{
		"$set":  set,
		"$push": bson.M{"notes": bson.M{"$each": completion.Notes()}},
	}

	_, err := s.orders.UpdateByID(ctx, completion.OrderID, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to complete order %s: %w", completion.OrderID, err)
	}

	return nil
}

func (s *MongoOrderStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}
