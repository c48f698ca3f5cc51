package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/handlers"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/middleware"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/tasks"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migration
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Redis is optional: without it, catalog lookups skip the cache
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Warnf("Redis unavailable, caching disabled: %v", err)
			cache = nil
		}
	}

	// Task registry, for the manual job trigger endpoints
	tasks.DefineTasks()

	// Services
	catalog := services.NewVehicleCatalogService(cache)
	scheduleService := services.NewPaymentScheduleService(db)
	statusService := services.NewPaymentStatusService(db)
	deductionService := services.NewDeductionService(db).WithNotifier(services.NewNotifierService())
	rentalService := services.NewRentalService(db, catalog)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.CustomErrorHandler

	// Middleware
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Handlers
	rentalHandler := handlers.NewRentalHandler(rentalService, scheduleService)
	paymentHandler := handlers.NewPaymentHandler(scheduleService, statusService, deductionService)
	pricingHandler := handlers.NewPricingHandler(catalog)
	jobHandler := handlers.NewJobHandler(db)

	api := e.Group("/api")

	// Rental lifecycle
	api.POST("/rentals", rentalHandler.AssignVehicle)
	api.GET("/rentals/:id", rentalHandler.GetRental)
	api.PUT("/rentals/:id/terminate", rentalHandler.TerminateRental)
	api.PUT("/rentals/:id/suspend", rentalHandler.SuspendRental)
	api.PUT("/rentals/:id/resume", rentalHandler.ResumeRental)
	api.DELETE("/rentals/:id", rentalHandler.CancelRental)
	api.GET("/rentals/:id/payments", rentalHandler.ListRentalPayments)

	// Payments
	api.GET("/payments/statistics", paymentHandler.Statistics)
	api.GET("/payments/:id", paymentHandler.GetPayment)
	api.PUT("/payments/:id", paymentHandler.UpdatePayment)
	api.POST("/payments/:id/deduct", paymentHandler.DeductPayment)
	api.POST("/payments/deductions/run", paymentHandler.RunDeductions)
	api.POST("/payments/retry/:riderId", paymentHandler.RetryFailedDeductions)

	// Pricing
	api.POST("/pricing/calculate", pricingHandler.CalculateCost)
	api.GET("/pricing/compare", pricingHandler.ComparePricing)

	// Riders
	api.GET("/riders/:id/balance", paymentHandler.RiderBalance)
	api.POST("/riders/:id/earnings", paymentHandler.CreditEarnings)
	api.POST("/riders/:id/payouts", paymentHandler.RecordPayout)

	// Jobs
	api.GET("/jobs", jobHandler.ListJobs)
	api.POST("/jobs/:name/run", jobHandler.RunJob)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Infof("Server starting on port %s", port)
	if err := e.Start(":" + port); err != nil {
		log.Fatal(err)
	}
}
