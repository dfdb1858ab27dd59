package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"elever/internal/config"
	"elever/internal/handlers"
	"elever/internal/middleware"
	"elever/internal/models"
	"elever/internal/repositories"
	"elever/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app         *fiber.App
	authService *services.AuthService
	productRepo *repositories.MemoryProductRepository
	orderRepo   *repositories.MemoryOrderRepository
	userRepo    *repositories.MemoryUserRepository
}

// setupApp wires a Fiber app on in-memory repositories, mirroring the
// composition in main.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		ClientURL:   "http://localhost:5173",
		JWTSecret:   "test_jwt_secret",
		AdminEmails: []string{"admin@example.com"},
	}

	productRepo := repositories.NewMemoryProductRepository()
	orderRepo := repositories.NewMemoryOrderRepository()
	userRepo := repositories.NewMemoryUserRepository()

	catalogService := services.NewCatalogService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminEmails)

	productHandler := handlers.NewProductHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService, cfg)

	app := fiber.New()
	protect := middleware.Protect(authService)
	adminOnly := middleware.AdminOnly()
	optionalAuth := middleware.OptionalAuth(authService)

	api := app.Group("/api")
	productHandler.RegisterRoutes(api, protect, adminOnly)
	orderHandler.RegisterRoutes(api, protect, adminOnly)
	authHandler.RegisterRoutes(app, protect, optionalAuth)

	return &testEnv{
		app:         app,
		authService: authService,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
	}
}

// signIn creates a user with the given role and returns a session token.
func (env *testEnv) signIn(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	user := &models.User{GoogleID: "g-" + email, Name: email, Email: email, Role: role}
	require.NoError(t, env.userRepo.Create(user))
	token, err := env.authService.GenerateToken(user.ID.Hex())
	require.NoError(t, err)
	return user, token
}

func (env *testEnv) request(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (env *testEnv) seedProduct(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "seeded for tests",
		Price:       price,
		Category:    models.CategoryEarrings,
		Images:      []string{"/images/" + name + ".jpg"},
		Stock:       stock,
	}
	require.NoError(t, env.productRepo.Create(product))
	return product
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestProductListing(t *testing.T) {
	env := setupApp(t)
	env.seedProduct(t, "Golden Hoop", 45.99, 50)
	env.seedProduct(t, "Pearl Drop", 68.99, 35)
	env.seedProduct(t, "Crystal Chandelier", 89.99, 25)

	// Public listing with pagination envelope.
	resp := env.request(t, http.MethodGet, "/api/products?limit=2&sort=price-asc", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	data := body["data"].([]any)
	assert.Len(t, data, 2)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["pages"])
	first := data[0].(map[string]any)
	assert.Equal(t, "Golden Hoop", first["name"])

	// Price filter bounds are inclusive.
	resp = env.request(t, http.MethodGet, "/api/products?minPrice=68.99&maxPrice=68.99", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Len(t, body["data"].([]any), 1)

	// Malformed numeric filters fail validation.
	resp = env.request(t, http.MethodGet, "/api/products?minPrice=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestProductAdminCRUD(t *testing.T) {
	env := setupApp(t)
	_, adminToken := env.signIn(t, "admin@example.com", models.RoleAdmin)
	_, userToken := env.signIn(t, "shopper@example.com", models.RoleUser)

	payload := map[string]any{
		"name":        "Minimalist Studs",
		"description": "Simple yet stunning studs",
		"price":       35.99,
		"category":    "earrings",
		"images":      []string{"/images/studs.jpg"},
		"stock":       100,
		"featured":    true,
	}

	// Mutation requires authentication and the admin role.
	resp := env.request(t, http.MethodPost, "/api/products", "", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodPost, "/api/products", userToken, payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodPost, "/api/products", adminToken, payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	created := body["data"].(map[string]any)
	id := created["id"].(string)
	assert.NotEmpty(t, id)

	// Round-trip: fetching by id returns the same attributes.
	resp = env.request(t, http.MethodGet, "/api/products/"+id, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	fetched := body["data"].(map[string]any)
	assert.Equal(t, "Minimalist Studs", fetched["name"])
	assert.Equal(t, 35.99, fetched["price"])
	assert.Equal(t, "earrings", fetched["category"])
	assert.Equal(t, float64(100), fetched["stock"])
	assert.Equal(t, true, fetched["featured"])

	// Invalid category is rejected.
	bad := map[string]any{
		"name":        "Ring",
		"description": "not in the category set",
		"price":       10.0,
		"category":    "rings",
	}
	resp = env.request(t, http.MethodPost, "/api/products", adminToken, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Delete, then the product is gone.
	resp = env.request(t, http.MethodDelete, "/api/products/"+id, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/products/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderLifecycle(t *testing.T) {
	env := setupApp(t)
	_, adminToken := env.signIn(t, "admin@example.com", models.RoleAdmin)
	_, userToken := env.signIn(t, "shopper@example.com", models.RoleUser)
	_, otherToken := env.signIn(t, "other@example.com", models.RoleUser)

	product := env.seedProduct(t, "Golden Hoop", 10.00, 50)

	address := map[string]any{
		"fullName":   "Shopper",
		"address":    "1 Main St",
		"city":       "Springfield",
		"state":      "IL",
		"postalCode": "62704",
		"country":    "US",
		"phone":      "+1 555 0100",
	}

	// Checkout requires authentication.
	resp := env.request(t, http.MethodPost, "/api/orders", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Place an order: 2 x 10.00 totals 20.00 with status pending.
	resp = env.request(t, http.MethodPost, "/api/orders", userToken, map[string]any{
		"items": []map[string]any{
			{"product": product.ID.Hex(), "quantity": 2},
		},
		"shippingAddress": address,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	order := body["data"].(map[string]any)
	assert.Equal(t, 20.00, order["totalAmount"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "COD", order["paymentMethod"])
	orderID := order["id"].(string)

	// Empty carts are rejected.
	resp = env.request(t, http.MethodPost, "/api/orders", userToken, map[string]any{
		"items":           []map[string]any{},
		"shippingAddress": address,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Owner sees the order; another shopper does not.
	resp = env.request(t, http.MethodGet, "/api/orders/"+orderID, userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/orders/"+orderID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The listing is scoped to the caller.
	resp = env.request(t, http.MethodGet, "/api/orders", userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Len(t, body["data"].([]any), 1)

	resp = env.request(t, http.MethodGet, "/api/orders", otherToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Empty(t, body["data"].([]any))

	// Status updates are admin-only; pending straight to delivered is
	// accepted because no transition graph is enforced.
	resp = env.request(t, http.MethodPut, "/api/orders/"+orderID+"/status", userToken, map[string]any{"status": "delivered"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodPut, "/api/orders/"+orderID+"/status", adminToken, map[string]any{"status": "delivered"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "delivered", body["data"].(map[string]any)["status"])

	resp = env.request(t, http.MethodPut, "/api/orders/"+orderID+"/status", adminToken, map[string]any{"status": "returned"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Admin listing and stats reflect the order.
	resp = env.request(t, http.MethodGet, "/api/orders/admin/all?status=delivered", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Len(t, body["data"].([]any), 1)

	resp = env.request(t, http.MethodGet, "/api/orders/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	stats := body["data"].(map[string]any)
	assert.Equal(t, 20.00, stats["totalRevenue"])
	assert.Equal(t, float64(1), stats["totalOrders"])
	assert.Equal(t, float64(1), stats["byStatus"].(map[string]any)["delivered"])

	// The snapshot in the order survives later catalog edits.
	product.Price = 99.99
	require.NoError(t, env.productRepo.Update(product))
	resp = env.request(t, http.MethodGet, "/api/orders/"+orderID, userToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	items := body["data"].(map[string]any)["items"].([]any)
	assert.Equal(t, 10.00, items[0].(map[string]any)["price"])
}

func TestOrderUnknownProduct(t *testing.T) {
	env := setupApp(t)
	_, userToken := env.signIn(t, "shopper@example.com", models.RoleUser)

	resp := env.request(t, http.MethodPost, "/api/orders", userToken, map[string]any{
		"items": []map[string]any{
			{"product": "64b000000000000000000000", "quantity": 1},
		},
		"shippingAddress": map[string]any{
			"fullName":   "Shopper",
			"address":    "1 Main St",
			"city":       "Springfield",
			"state":      "IL",
			"postalCode": "62704",
			"country":    "US",
			"phone":      "+1 555 0100",
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The rejected checkout left no order behind.
	count, err := env.orderRepo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestInventoryStatsEndpoint(t *testing.T) {
	env := setupApp(t)
	_, adminToken := env.signIn(t, "admin@example.com", models.RoleAdmin)

	env.seedProduct(t, "Sold Out", 10, 0)
	env.seedProduct(t, "Almost Gone", 20, 3)
	env.seedProduct(t, "Plenty", 30, 10)

	resp := env.request(t, http.MethodGet, "/api/products/admin/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	stats := body["data"].(map[string]any)
	assert.Equal(t, float64(3), stats["totalProducts"])
	assert.Equal(t, float64(13), stats["totalStock"])
	assert.Equal(t, float64(1), stats["outOfStock"])
	low := stats["lowStockProducts"].([]any)
	assert.Len(t, low, 1)
	assert.Equal(t, "Almost Gone", low[0].(map[string]any)["name"])
}

func TestAuthStatusAndMe(t *testing.T) {
	env := setupApp(t)
	user, token := env.signIn(t, "shopper@example.com", models.RoleUser)

	// Status never fails, with or without a token.
	resp := env.request(t, http.MethodGet, "/auth/status", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["isAuthenticated"])

	resp = env.request(t, http.MethodGet, "/auth/status", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["isAuthenticated"])

	// /auth/me requires authentication and returns the caller.
	resp = env.request(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, user.Email, body["data"].(map[string]any)["email"])

	// A garbage token is rejected on protected routes.
	resp = env.request(t, http.MethodGet, "/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
