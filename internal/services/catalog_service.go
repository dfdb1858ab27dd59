package services

import (
	"fmt"

	"elever/internal/apperrors"
	"elever/internal/models"
	"elever/internal/repositories"
)

const (
	defaultPageSize   = 12
	maxPageSize       = 100
	featuredLimit     = 8
	lowStockThreshold = 5
	lowStockLimit     = 10
)

// Pagination describes the page window of a catalog listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// InventoryStats is the admin inventory aggregate report.
type InventoryStats struct {
	TotalProducts    int64            `json:"totalProducts"`
	TotalStock       int64            `json:"totalStock"`
	OutOfStock       int64            `json:"outOfStock"`
	LowStockCount    int              `json:"lowStockCount"`
	LowStockProducts []models.Product `json:"lowStockProducts"`
}

// CatalogService handles business logic for the product catalog.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListProducts runs a filtered, sorted, paginated catalog query. Page and
// limit are normalized here; the sort key must be empty or one of the known
// keys.
func (s *CatalogService) ListProducts(q repositories.ProductQuery) (*ProductPage, error) {
	if q.Sort != "" && !repositories.ValidSortKey(q.Sort) {
		return nil, apperrors.Validation("unknown sort key %q", q.Sort)
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperrors.Validation("minPrice must not exceed maxPrice")
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}

	products, err := s.repo.Find(q)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	total, err := s.repo.Count(q)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	pages := (total + int64(q.Limit) - 1) / int64(q.Limit)
	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// GetProduct retrieves a single product by its id.
func (s *CatalogService) GetProduct(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// FeaturedProducts returns the products highlighted on the storefront.
func (s *CatalogService) FeaturedProducts() ([]models.Product, error) {
	return s.repo.GetFeatured(featuredLimit)
}

// ProductsByCategory returns every product in a category. An unknown
// category is not rejected; it simply matches nothing.
func (s *CatalogService) ProductsByCategory(category string) ([]models.Product, error) {
	return s.repo.GetByCategory(category)
}

// CreateProduct adds a product to the catalog.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct replaces an existing product's attributes.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// InventoryStats builds the admin inventory report: catalog size, total
// stock, zero-stock count and the lowest-stocked products still in stock.
func (s *CatalogService) InventoryStats() (*InventoryStats, error) {
	total, err := s.repo.Count(repositories.ProductQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to count catalog: %w", err)
	}
	stock, err := s.repo.TotalStock()
	if err != nil {
		return nil, fmt.Errorf("failed to sum stock: %w", err)
	}
	outOfStock, err := s.repo.CountOutOfStock()
	if err != nil {
		return nil, fmt.Errorf("failed to count out-of-stock products: %w", err)
	}
	low, err := s.repo.FindLowStock(lowStockThreshold, lowStockLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to find low-stock products: %w", err)
	}

	return &InventoryStats{
		TotalProducts:    total,
		TotalStock:       stock,
		OutOfStock:       outOfStock,
		LowStockCount:    len(low),
		LowStockProducts: low,
	}, nil
}
