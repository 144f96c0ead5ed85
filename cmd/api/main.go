package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/hallbook/hallbook-api/internal/config"
	"github.com/hallbook/hallbook-api/internal/database"
	"github.com/hallbook/hallbook-api/internal/handlers"
	"github.com/hallbook/hallbook-api/internal/jobs"
	"github.com/hallbook/hallbook-api/internal/middleware"
	"github.com/hallbook/hallbook-api/internal/repository"
	"github.com/hallbook/hallbook-api/internal/services"
	"github.com/hallbook/hallbook-api/internal/storage"
	"github.com/hallbook/hallbook-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Seed the protected default categories
	if err := repos.Category.SeedDefaults(context.Background()); err != nil {
		logger.Error("Failed to seed default categories", "error", err)
		os.Exit(1)
	}

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, repos)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication; every handler is
		// scoped to the organization carried by the token)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			accounts := protected.Group("/accounts")
			{
				accounts.GET("", h.Account.Index)
				accounts.POST("", h.Account.Create)
				accounts.POST("/transfer", h.Account.Transfer)
				accounts.POST("/vouchers", h.Account.CreateVoucher)
				accounts.GET("/:id/balance", h.Account.Balance)
				accounts.GET("/:id/ledger", h.Account.Ledger)
				accounts.PUT("/:id/opening_balance", h.Account.SetOpeningBalance)
				accounts.DELETE("/:id", h.Account.Delete)
			}

			bookings := protected.Group("/bookings")
			{
				bookings.GET("", h.Booking.Index)
				bookings.POST("", h.Booking.Create)
				bookings.POST("/:id/confirm", h.Booking.Confirm)
				bookings.POST("/:id/cancel", h.Booking.Cancel)
				bookings.GET("/:id/payments", h.Booking.ListPayments)
				bookings.POST("/:id/payments", h.Booking.AddPayment)
				bookings.POST("/:id/secondary_income", h.Booking.AddSecondaryIncome)
				bookings.GET("/:id/available_to_refund", h.Booking.AvailableToRefund)
				bookings.POST("/:id/refund", h.Booking.Refund)
			}

			categories := protected.Group("/categories")
			{
				categories.GET("", h.Category.Index)
				categories.POST("", h.Category.Create)
				categories.PUT("/:id", h.Category.Update)
				categories.DELETE("/:id", h.Category.Delete)
			}

			vendors := protected.Group("/vendors")
			{
				vendors.GET("", h.Vendor.Index)
				vendors.POST("", h.Vendor.Create)
				vendors.GET("/:id", h.Vendor.Show)
				vendors.PUT("/:id", h.Vendor.Update)
				vendors.DELETE("/:id", h.Vendor.Delete)
			}

			expenses := protected.Group("/expenses")
			{
				expenses.GET("", h.Expense.Index)
				expenses.POST("", h.Expense.Create)
				expenses.GET("/:id", h.Expense.Show)
				expenses.PUT("/:id", h.Expense.Update)
				expenses.DELETE("/:id", h.Expense.Delete)
				expenses.POST("/:id/mark_paid", h.Expense.MarkPaid)
				expenses.POST("/:id/bill", h.Expense.UploadBill)
				expenses.GET("/:id/bill", h.Expense.DownloadBill)
			}

			reports := protected.Group("/reports")
			{
				reports.GET("/summary", h.Report.Summary)
				reports.GET("/breakdown", h.Report.Breakdown)
				reports.GET("/payables", h.Report.Payables)
				reports.GET("/receivables", h.Report.Receivables)
				reports.GET("/export/:format", h.Report.Export)
			}

			protected.GET("/jobs/status", middleware.RequireAdmin(), h.Job.Status)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, repos *repository.Repositories) {
	// Reconcile balance snapshots against the voucher fold every 6 hours
	worker.ScheduleEvery(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Reconciling account balances...")
		return svcs.Ledger.ReconcileBalances(ctx)
	})

	// Drop expired report cache rows hourly
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning expired report cache entries...")
		return repos.ReportCache.CleanExpired(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
