package handlers

import (
	"elever/internal/apperrors"
	"elever/internal/middleware"
	"elever/internal/models"
	"elever/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Every route requires
// authentication; the /admin subtree and status updates require the admin
// role.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, protect, adminOnly fiber.Handler) {
	orders := router.Group("/orders", protect)
	orders.Post("/", h.HandleCreate)
	orders.Get("/", h.HandleMyOrders)
	orders.Get("/admin/all", adminOnly, h.HandleAllOrders)
	orders.Get("/admin/stats", adminOnly, h.HandleStats)
	orders.Get("/:id", h.HandleGetByID)
	orders.Put("/:id/status", adminOnly, h.HandleUpdateStatus)
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items           []services.OrderLine   `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" validate:"required"`
}

// HandleCreate places an order from the caller's cart contents.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, structValidationError(err))
	}

	user := middleware.CurrentUser(c)
	order, err := h.service.CreateOrder(user, req.Items, req.ShippingAddress)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// HandleMyOrders returns the caller's orders, newest first.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	orders, err := h.service.OrdersForUser(user.ID.Hex())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// HandleGetByID returns a single order. Non-admin callers only see their
// own orders; others appear absent.
func (h *OrderHandler) HandleGetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	order, err := h.service.GetOrder(id)
	if err != nil {
		return respondError(c, err)
	}

	user := middleware.CurrentUser(c)
	if !user.IsAdmin() && order.User != user.ID {
		return respondError(c, apperrors.NotFound("order", id))
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// HandleAllOrders returns every order for the admin view, optionally
// filtered by status.
func (h *OrderHandler) HandleAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.AllOrders(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// HandleUpdateStatus sets the status of an order.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, structValidationError(err))
	}

	order, err := h.service.UpdateStatus(c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// HandleStats returns the admin order report.
func (h *OrderHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}
