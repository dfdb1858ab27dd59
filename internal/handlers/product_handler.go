package handlers

import (
	"strconv"

	"elever/internal/apperrors"
	"elever/internal/models"
	"elever/internal/repositories"
	"elever/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes. Mutating routes and the
// stats report are admin-only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, protect, adminOnly fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleList)
	products.Get("/featured", h.HandleFeatured)
	products.Get("/category/:category", h.HandleByCategory)
	products.Get("/admin/stats", protect, adminOnly, h.HandleInventoryStats)
	products.Post("/", protect, adminOnly, h.HandleCreate)
	products.Get("/:id", h.HandleGetByID)
	products.Put("/:id", protect, adminOnly, h.HandleUpdate)
	products.Delete("/:id", protect, adminOnly, h.HandleDelete)
}

// parseQuery builds a typed catalog query from the request's query params.
// Malformed numeric values are rejected here, before the service layer.
func parseQuery(c *fiber.Ctx) (repositories.ProductQuery, error) {
	q := repositories.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     1,
		Limit:    0,
	}

	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, apperrors.Validation("minPrice must be a number")
		}
		q.MinPrice = &v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, apperrors.Validation("maxPrice must be a number")
		}
		q.MaxPrice = &v
	}
	if c.Query("featured") == "true" {
		featured := true
		q.Featured = &featured
	}
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, apperrors.Validation("page must be a positive integer")
		}
		q.Page = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, apperrors.Validation("limit must be a positive integer")
		}
		q.Limit = v
	}

	return q, nil
}

// HandleList returns a filtered, sorted, paginated product listing.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	q, err := parseQuery(c)
	if err != nil {
		return respondError(c, err)
	}

	page, err := h.service.ListProducts(q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       page.Products,
		"pagination": page.Pagination,
	})
}

// HandleGetByID returns a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// HandleFeatured returns the storefront's featured products.
func (h *ProductHandler) HandleFeatured(c *fiber.Ctx) error {
	products, err := h.service.FeaturedProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": products})
}

// HandleByCategory returns every product in a category.
func (h *ProductHandler) HandleByCategory(c *fiber.Ctx) error {
	products, err := h.service.ProductsByCategory(c.Params("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": products})
}

// HandleCreate adds a product to the catalog.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := h.validate.Struct(product); err != nil {
		return respondError(c, structValidationError(err))
	}

	if err := h.service.CreateProduct(&product); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// HandleUpdate replaces a product's attributes.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return respondError(c, apperrors.NotFound("product", id))
	}

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	product.ID = oid
	if err := h.validate.Struct(product); err != nil {
		return respondError(c, structValidationError(err))
	}

	if err := h.service.UpdateProduct(&product); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}

// HandleDelete removes a product from the catalog.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}

// HandleInventoryStats returns the admin inventory report.
func (h *ProductHandler) HandleInventoryStats(c *fiber.Ctx) error {
	stats, err := h.service.InventoryStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}
