package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"elever/internal/apperrors"
	"elever/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It mirrors the Mongo implementation's query semantics and backs tests and
// database-less local runs.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

func (q ProductQuery) matches(p models.Product) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.Featured != nil && p.Featured != *q.Featured {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

func sortProducts(products []models.Product, key string) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch key {
		case SortPriceAsc:
			return a.Price < b.Price
		case SortPriceDesc:
			return a.Price > b.Price
		case SortName:
			return a.Name < b.Name
		case SortPopular:
			return a.Ratings.Count > b.Ratings.Count
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			// ObjectIDs grow over time; break timestamp ties on them.
			return a.ID.Hex() > b.ID.Hex()
		}
	})
}

func (r *MemoryProductRepository) matching(q ProductQuery) []models.Product {
	matched := []models.Product{}
	for _, p := range r.products {
		if q.matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Find returns the page of products matching the query.
func (r *MemoryProductRepository) Find(q ProductQuery) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(q)
	sortProducts(matched, q.Sort)

	if q.Limit <= 0 {
		return matched, nil
	}
	skip := q.Skip()
	if skip >= len(matched) {
		return []models.Product{}, nil
	}
	end := skip + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

// Count returns the total number of products matching the query.
func (r *MemoryProductRepository) Count(q ProductQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(q))), nil
}

// GetByID returns a product by its id.
func (r *MemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &product, nil
}

// GetFeatured returns up to limit featured products, newest first.
func (r *MemoryProductRepository) GetFeatured(limit int64) ([]models.Product, error) {
	featured := true
	return r.Find(ProductQuery{Featured: &featured, Limit: int(limit), Page: 1})
}

// GetByCategory returns all products in a category, newest first.
func (r *MemoryProductRepository) GetByCategory(category string) ([]models.Product, error) {
	return r.Find(ProductQuery{Category: category})
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID.Hex()] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID.Hex()]
	if !ok {
		return apperrors.NotFound("product", product.ID.Hex())
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[product.ID.Hex()] = *product
	return nil
}

// Delete removes a product by its id.
func (r *MemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

// TotalStock sums stock across the whole catalog.
func (r *MemoryProductRepository) TotalStock() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, p := range r.products {
		total += int64(p.Stock)
	}
	return total, nil
}

// CountOutOfStock counts products with zero stock.
func (r *MemoryProductRepository) CountOutOfStock() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if p.Stock == 0 {
			count++
		}
	}
	return count, nil
}

// FindLowStock returns up to limit products with stock in (0, threshold],
// ascending by stock.
func (r *MemoryProductRepository) FindLowStock(threshold int, limit int64) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	low := []models.Product{}
	for _, p := range r.products {
		if p.Stock > 0 && p.Stock <= threshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	if int64(len(low)) > limit {
		low = low[:limit]
	}
	return low, nil
}
