package repositories

import "elever/internal/models"

// Sort keys accepted by product queries.
const (
	SortNewest    = "newest" // default: most recently created first
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
	SortPopular   = "popular" // rating count descending
)

// ValidSortKey reports whether s is a known sort key.
func ValidSortKey(s string) bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortName, SortPopular:
		return true
	}
	return false
}

// ProductQuery describes a filtered, sorted, paginated catalog query.
// Nil pointer fields mean "no bound"; price bounds are inclusive.
type ProductQuery struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Search   string // case-insensitive substring over name or description
	Sort     string // one of the Sort* keys; empty means SortNewest
	Page     int    // 1-based
	Limit    int    // page size
}

// Skip returns the number of documents to skip for the query's page.
func (q ProductQuery) Skip() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	Find(q ProductQuery) ([]models.Product, error)
	Count(q ProductQuery) (int64, error)
	GetByID(id string) (*models.Product, error)
	GetFeatured(limit int64) ([]models.Product, error)
	GetByCategory(category string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// Inventory aggregates for the admin report.
	TotalStock() (int64, error)
	CountOutOfStock() (int64, error)
	FindLowStock(threshold int, limit int64) ([]models.Product, error)
}
