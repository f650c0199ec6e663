package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"kiranapos/internal/caching"
	"kiranapos/internal/config"
	"kiranapos/internal/handlers"
	"kiranapos/internal/jobs/background"
	"kiranapos/internal/middleware"
	"kiranapos/internal/repositories"
	"kiranapos/internal/services"
	"kiranapos/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT secret not configured, using generated secret")
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(ctx, cfg.Minio.Bucket); err != nil {
		log.Fatalf("Failed to ensure MinIO bucket exists: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	businessRepo := repositories.NewBusinessProfileRepo(pool)

	// Create services
	authSvc := services.NewAuthService(userRepo, cacheSvc, cfg.JWT)
	productSvc := services.NewProductService(productRepo, categoryRepo, cacheSvc)
	categorySvc := services.NewCategoryService(categoryRepo, cacheSvc)
	customerSvc := services.NewCustomerService(customerRepo)
	checkoutSvc := services.NewCheckoutService(productRepo, invoiceRepo, customerSvc, cacheSvc)
	salesSvc := services.NewSalesService(invoiceRepo, cacheSvc)
	receiptSvc := services.NewReceiptService(minioSvc, cfg.Minio.Bucket)
	businessSvc := services.NewBusinessService(businessRepo, minioSvc, cacheSvc, cfg.Minio.Bucket)

	// Background jobs
	scheduler, err := background.NewJobScheduler(salesSvc, productRepo, userRepo, cfg.Jobs)
	if err != nil {
		log.Fatalf("Failed to initialize job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc)
	checkoutHandlers := handlers.NewCheckoutHandlers(checkoutSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(salesSvc, receiptSvc, businessSvc)
	businessHandlers := handlers.NewBusinessHandlers(businessSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(cacheSvc, 20, time.Minute))
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(cfg.JWT.Secret)))
	protected.Use(middleware.RateLimit(cacheSvc, 300, time.Minute))

	// Product routes
	protected.GET("/products", productHandlers.ListProducts)
	protected.POST("/products", productHandlers.CreateProduct)
	protected.GET("/products/search", productHandlers.SearchProducts)
	protected.GET("/products/low-stock", productHandlers.ListLowStock)
	protected.GET("/products/barcode/:barcode", productHandlers.GetProductByBarcode)
	protected.GET("/products/:id", productHandlers.GetProduct)
	protected.PUT("/products/:id", productHandlers.UpdateProduct)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct)

	// Category routes
	protected.GET("/categories", categoryHandlers.ListCategories)
	protected.POST("/categories", categoryHandlers.CreateCategory)
	protected.GET("/categories/:id", categoryHandlers.GetCategory)
	protected.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	// Customer routes
	protected.GET("/customers", customerHandlers.ListCustomers)
	protected.POST("/customers", customerHandlers.CreateCustomer)
	protected.GET("/customers/:id", customerHandlers.GetCustomer)
	protected.PUT("/customers/:id", customerHandlers.UpdateCustomer)

	// Checkout
	protected.POST("/checkout", checkoutHandlers.Checkout)

	// Invoice routes
	protected.GET("/invoices", invoiceHandlers.ListInvoices)
	protected.GET("/invoices/summary", invoiceHandlers.GetSummary)
	protected.GET("/invoices/gst-report", invoiceHandlers.GetGSTReport)
	protected.GET("/invoices/export/csv", invoiceHandlers.ExportCSV)
	protected.GET("/invoices/export/xlsx", invoiceHandlers.ExportXLSX)
	protected.GET("/invoices/number/:number", invoiceHandlers.GetInvoiceByNumber)
	protected.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	protected.GET("/invoices/:id/receipt", invoiceHandlers.GetReceipt)

	// Business profile routes
	protected.GET("/business", businessHandlers.GetProfile)
	protected.PUT("/business", businessHandlers.SaveProfile)
	protected.POST("/business/logo", businessHandlers.UploadLogo)
	protected.GET("/business/logo", businessHandlers.GetLogoURL)

	// Start server with graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("KiranaPOS server v%s starting on %s", version, addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}
