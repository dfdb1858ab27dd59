package repositories

import (
	"context"
	"fmt"
	"time"

	"elever/internal/apperrors"
	"elever/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(coll *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{coll: coll}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

// Create inserts a new order and fills in its id and timestamps.
func (r *MongoOrderRepository) Create(order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.coll.InsertOne(context.TODO(), order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order by id.
func (r *MongoOrderRepository) GetByID(id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("order", id)
	}

	var order models.Order
	err = r.coll.FindOne(context.TODO(), bson.M{"_id": oid}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// GetByUser returns the user's orders, newest first.
func (r *MongoOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NotFound("user", userID)
	}
	return r.find(bson.M{"user": oid})
}

// GetAll returns all orders, newest first, optionally filtered by status.
func (r *MongoOrderRepository) GetAll(status string) ([]models.Order, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.find(filter)
}

func (r *MongoOrderRepository) find(filter bson.M) ([]models.Order, error) {
	cur, err := r.coll.Find(context.TODO(), filter, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cur.Close(context.TODO())

	orders := []models.Order{}
	if err := cur.All(context.TODO(), &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the status of an order and returns the updated document.
func (r *MongoOrderRepository) UpdateStatus(id string, status string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("order", id)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err = r.coll.FindOneAndUpdate(context.TODO(), bson.M{"_id": oid}, update, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	return &order, nil
}

// Count returns the total number of orders.
func (r *MongoOrderRepository) Count() (int64, error) {
	count, err := r.coll.CountDocuments(context.TODO(), bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// TotalRevenue sums totalAmount across all orders.
func (r *MongoOrderRepository) TotalRevenue() (float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}},
	}
	cur, err := r.coll.Aggregate(context.TODO(), pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cur.Close(context.TODO())

	var results []bson.M
	if err := cur.All(context.TODO(), &results); err != nil || len(results) == 0 {
		return 0, err
	}
	switch v := results[0]["total"].(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, nil
	}
}

// CountByStatus returns order counts grouped by status.
func (r *MongoOrderRepository) CountByStatus() (map[string]int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cur, err := r.coll.Aggregate(context.TODO(), pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders by status: %w", err)
	}
	defer cur.Close(context.TODO())

	var results []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(context.TODO(), &results); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.ID] = res.Count
	}
	return counts, nil
}
