package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-pos-ws/internal/cart"
	"go-pos-ws/internal/handler"
	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"
	"go-pos-ws/internal/store"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database (the shared remote order table)
	db := database.ConnectDB()
	db.AutoMigrate(&model.Order{}, &model.User{}, &model.Product{})

	// 3. Seed menu and crew
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	seedDefaults(userRepo, productRepo)

	// 4. Local fallback snapshot
	snapDir := os.Getenv("SNAPSHOT_DIR")
	if snapDir == "" {
		snapDir = "./data"
	}
	snap := store.NewSnapshot(snapDir)
	if users, err := userRepo.FindAll(); err == nil {
		snap.SaveUsers(users)
	}

	// 5. WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Reconciler (poll + push, optimistic writes)
	orderRepo := repository.NewOrderRepo(db)
	rec := store.New(orderRepo, snap, wsHub, syncInterval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rec.Run(ctx)

	// 7. Dependency Injection (Wiring Layers)
	carts := cart.NewRegistry()

	orderService := service.NewOrderService(carts, productRepo, rec, wsHub)
	reportService := service.NewReportService(rec)
	authService := service.NewAuthService(userRepo, snap, carts)
	userService := service.NewUserService(userRepo, snap)

	authHandler := handler.NewAuthHandler(authService)
	posHandler := handler.NewPosHandler(orderService)
	orderHandler := handler.NewOrderHandler(orderService, reportService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productRepo)

	// 8. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Food Stall POS v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 9. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Get("/users", authHandler.LoginOptions)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/logout", authHandler.Logout)

	// Register (cart + checkout): staff and admin only
	register := protected.Group("", middleware.RequireRole("staff", "admin"))
	register.Get("/cart", posHandler.GetCart)
	register.Post("/cart/items", posHandler.AddItem)
	register.Patch("/cart/items/:id", posHandler.AdjustQuantity)
	register.Delete("/cart/items/:id", posHandler.RemoveItem)
	register.Delete("/cart", posHandler.ClearCart)
	register.Post("/checkout", posHandler.Checkout)

	// Orders: any authenticated role may read (kitchen board, hall display)
	protected.Get("/orders", orderHandler.GetOrders)
	protected.Get("/status", orderHandler.GetStatus)

	// Kitchen transitions
	kitchen := protected.Group("", middleware.RequireRole("kitchen", "admin"))
	kitchen.Post("/orders/:id/done", orderHandler.MarkDone)
	kitchen.Post("/orders/:id/return", orderHandler.ReturnToPrep)

	// Admin-only lifecycle operations and reports
	admin := protected.Group("", middleware.RequireRole("admin"))
	admin.Post("/orders/:id/cancel", orderHandler.Cancel)
	admin.Post("/system/reset", orderHandler.Reset)
	admin.Get("/reports/daily", orderHandler.DailyReport)

	// Menu: readable by all, writable by admin
	protected.Get("/products", productHandler.GetProducts)
	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	// Users view is visible to every authenticated role; mutations admin-gated
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	admin.Post("/users", userHandler.CreateUser)
	admin.Put("/users/:id", userHandler.UpdateUser)
	admin.Delete("/users/:id", userHandler.DeleteUser)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Any client message doubles as a refresh request.
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
			rec.Poke()
		}
	}))

	// 10. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func syncInterval() time.Duration {
	if v := os.Getenv("SYNC_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 10 * time.Second
}

// seedDefaults creates the default crew and menu if they don't exist
func seedDefaults(userRepo repository.UserRepository, productRepo repository.ProductRepository) {
	defaultPassword := os.Getenv("DEFAULT_USER_PASSWORD")
	if defaultPassword == "" {
		defaultPassword = "0"
	}

	if err := userRepo.SeedDefaults(defaultPassword); err != nil {
		log.Printf("Warning: Failed to seed users: %v", err)
	} else {
		log.Println("✅ Default crew available (super admin id 0)")
	}

	if err := productRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed products: %v", err)
	}
}
