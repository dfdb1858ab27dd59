package repositories

import "elever/internal/models"

// OrderRepository defines the interface for order data access. Listings are
// returned newest first.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetAll(status string) ([]models.Order, error) // empty status = no filter
	UpdateStatus(id string, status string) (*models.Order, error)

	// Aggregates for the admin dashboard.
	Count() (int64, error)
	TotalRevenue() (float64, error)
	CountByStatus() (map[string]int64, error)
}
