package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elever/internal/config"
	"elever/internal/handlers"
	"elever/internal/middleware"
	"elever/internal/repositories"
	"elever/internal/seed"
	"elever/internal/services"
	"elever/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- MongoDB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	db := client.Database(cfg.MongoDB)
	log.Printf("Connected to MongoDB database %q", cfg.MongoDB)

	// --- RabbitMQ (optional: the store runs without order events) ---
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	productRepo := repositories.NewMongoProductRepository(db.Collection("products"))
	orderRepo := repositories.NewMongoOrderRepository(db.Collection("orders"))
	userRepo := repositories.NewMongoUserRepository(db.Collection("users"))

	// Optional development seeding: only touches an empty catalog.
	if cfg.SeedOnStart {
		inserted, err := seed.Products(productRepo)
		if err != nil {
			log.Printf("Failed to seed catalog: %v", err)
		} else if inserted > 0 {
			log.Printf("Seeded catalog with %d products", inserted)
		}
	}

	// --- Services ---
	catalogService := services.NewCatalogService(productRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminEmails)
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(orderRepo, productRepo, publisher)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService, cfg)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientURL,
		AllowCredentials: true,
	}))

	protect := middleware.Protect(authService)
	adminOnly := middleware.AdminOnly()
	optionalAuth := middleware.OptionalAuth(authService)

	api := app.Group("/api")
	productHandler.RegisterRoutes(api, protect, adminOnly)
	orderHandler.RegisterRoutes(api, protect, adminOnly)
	authHandler.RegisterRoutes(app, protect, optionalAuth)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "Elever API is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// --- Order events consumer ---
	if mqClient != nil {
		err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			log.Printf("order event %s: %s", msg.Type, msg.Body)
			return nil
		})
		if err != nil {
			log.Printf("Failed to start order events consumer: %v", err)
		}
	}

	// --- Start HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
