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

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

// productFilter translates a ProductQuery into a Mongo filter document.
func productFilter(q ProductQuery) bson.M {
	filter := bson.M{}

	if q.Category != "" {
		filter["category"] = q.Category
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	if q.Featured != nil {
		filter["featured"] = *q.Featured
	}

	if q.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	return filter
}

// productSort translates a sort key into a Mongo sort document.
func productSort(key string) bson.D {
	switch key {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case SortName:
		return bson.D{{Key: "name", Value: 1}}
	case SortPopular:
		return bson.D{{Key: "ratings.count", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// Find returns the page of products matching the query.
func (r *MongoProductRepository) Find(q ProductQuery) ([]models.Product, error) {
	opts := options.Find().SetSort(productSort(q.Sort))
	if q.Limit > 0 {
		opts.SetSkip(int64(q.Skip())).SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(context.TODO(), productFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cur.Close(context.TODO())

	products := []models.Product{}
	if err := cur.All(context.TODO(), &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Count returns the total number of products matching the query, ignoring
// pagination.
func (r *MongoProductRepository) Count(q ProductQuery) (int64, error) {
	total, err := r.coll.CountDocuments(context.TODO(), productFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// GetByID retrieves a single product. A malformed or unknown id yields a
// not-found error.
func (r *MongoProductRepository) GetByID(id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("product", id)
	}

	var product models.Product
	err = r.coll.FindOne(context.TODO(), bson.M{"_id": oid}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NotFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

// GetFeatured returns up to limit featured products, newest first.
func (r *MongoProductRepository) GetFeatured(limit int64) ([]models.Product, error) {
	featured := true
	q := ProductQuery{Featured: &featured, Limit: int(limit), Page: 1}
	return r.Find(q)
}

// GetByCategory returns all products in a category, newest first.
func (r *MongoProductRepository) GetByCategory(category string) ([]models.Product, error) {
	return r.Find(ProductQuery{Category: category})
}

// Create inserts a new product and fills in its id and timestamps.
func (r *MongoProductRepository) Create(product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.coll.InsertOne(context.TODO(), product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *MongoProductRepository) Update(product *models.Product) error {
	product.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"category":    product.Category,
		"images":      product.Images,
		"stock":       product.Stock,
		"featured":    product.Featured,
		"ratings":     product.Ratings,
		"updated_at":  product.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(context.TODO(), bson.M{"_id": product.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("product", product.ID.Hex())
	}
	return nil
}

// Delete removes a product by id.
func (r *MongoProductRepository) Delete(id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound("product", id)
	}

	res, err := r.coll.DeleteOne(context.TODO(), bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

// TotalStock sums stock across the whole catalog.
func (r *MongoProductRepository) TotalStock() (int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$stock"}}},
	}
	cur, err := r.coll.Aggregate(context.TODO(), pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate stock: %w", err)
	}
	defer cur.Close(context.TODO())

	var results []bson.M
	if err := cur.All(context.TODO(), &results); err != nil || len(results) == 0 {
		return 0, err
	}
	switch v := results[0]["total"].(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, nil
	}
}

// CountOutOfStock counts products with zero stock.
func (r *MongoProductRepository) CountOutOfStock() (int64, error) {
	count, err := r.coll.CountDocuments(context.TODO(), bson.M{"stock": 0})
	if err != nil {
		return 0, fmt.Errorf("failed to count out-of-stock products: %w", err)
	}
	return count, nil
}

// FindLowStock returns up to limit products with stock in (0, threshold],
// ascending by stock.
func (r *MongoProductRepository) FindLowStock(threshold int, limit int64) ([]models.Product, error) {
	filter := bson.M{"stock": bson.M{"$gt": 0, "$lte": threshold}}
	opts := options.Find().
		SetSort(bson.D{{Key: "stock", Value: 1}}).
		SetLimit(limit)

	cur, err := r.coll.Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query low-stock products: %w", err)
	}
	defer cur.Close(context.TODO())

	products := []models.Product{}
	if err := cur.All(context.TODO(), &products); err != nil {
		return nil, fmt.Errorf("failed to decode low-stock products: %w", err)
	}
	return products, nil
}
