package services

import (
	"encoding/json"
	"fmt"
	"log"

	"elever/internal/apperrors"
	"elever/internal/models"
	"elever/internal/repositories"
)

// EventPublisher publishes order lifecycle events to the message broker.
// Satisfied by *rabbitmq.Client; may be nil when no broker is configured.
type EventPublisher interface {
	PublishOrderEvent(eventType string, body []byte) error
}

// OrderLine is one requested line item at checkout.
type OrderLine struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// OrderStats is the admin order aggregate report.
type OrderStats struct {
	TotalRevenue float64          `json:"totalRevenue"`
	TotalOrders  int64            `json:"totalOrders"`
	ByStatus     map[string]int64 `json:"byStatus"`
}

// OrderService handles the order placement and status workflow.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// CreateOrder validates the requested lines against the catalog, snapshots
// name, price and image from the current product state, and persists the
// order with status pending and cash-on-delivery payment.
//
// Stock is not decremented here; inventory only changes through admin
// catalog edits.
func (s *OrderService) CreateOrder(user *models.User, lines []OrderLine, address models.ShippingAddress) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, apperrors.Validation("order must contain at least one item")
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, apperrors.Validation("quantity must be at least 1")
		}

		product, err := s.productRepo.GetByID(line.Product)
		if err != nil {
			return nil, err
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, models.OrderItem{
			Product:  product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Quantity: line.Quantity,
			Image:    image,
		})
		totalAmount += product.Price * float64(line.Quantity)
	}

	order := &models.Order{
		User:            user.ID,
		Items:           items,
		TotalAmount:     totalAmount,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentStatusPending,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishEvent("order.created", map[string]any{
		"orderId": order.ID.Hex(),
		"userId":  order.User.Hex(),
		"status":  order.Status,
		"total":   order.TotalAmount,
	})

	return order, nil
}

// UpdateStatus sets the status of an order. Only enum membership is checked;
// no transition graph is enforced, so any status may replace any other.
func (s *OrderService) UpdateStatus(id string, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.Validation("invalid order status %q", status)
	}

	order, err := s.orderRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.status_updated", map[string]any{
		"orderId": order.ID.Hex(),
		"status":  order.Status,
	})

	return order, nil
}

// GetOrder retrieves a single order by its id. Callers enforce ownership.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// OrdersForUser returns the user's orders, newest first.
func (s *OrderService) OrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// AllOrders returns every order, newest first, optionally filtered by status.
func (s *OrderService) AllOrders(status string) ([]models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, apperrors.Validation("invalid order status %q", status)
	}
	return s.orderRepo.GetAll(status)
}

// Stats builds the admin order report: total revenue, order count and a
// per-status breakdown.
func (s *OrderService) Stats() (*OrderStats, error) {
	revenue, err := s.orderRepo.TotalRevenue()
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	count, err := s.orderRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	byStatus, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to group orders by status: %w", err)
	}

	return &OrderStats{
		TotalRevenue: revenue,
		TotalOrders:  count,
		ByStatus:     byStatus,
	}, nil
}

// publishEvent emits an order event best effort: a broker outage must never
// fail the order operation itself.
func (s *OrderService) publishEvent(eventType string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.PublishOrderEvent(eventType, body); err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}
