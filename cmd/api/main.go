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
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/doclave/doclave-api/docs" // Swagger docs
	"github.com/doclave/doclave-api/internal/config"
	"github.com/doclave/doclave-api/internal/database"
	"github.com/doclave/doclave-api/internal/handlers"
	"github.com/doclave/doclave-api/internal/jobs"
	"github.com/doclave/doclave-api/internal/middleware"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/services"
	"github.com/doclave/doclave-api/internal/storage"
	"github.com/doclave/doclave-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Doclave API
// @version 1.0
// @description REST API for Doclave Compliance Document Management
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@doclave.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Set them in .env and ensure the From domain is verified in Resend dashboard.")
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

	// Initialize object storage
	store, err := storage.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized object storage", "backend", cfg.StorageBackend)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
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

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
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
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/restore", h.User.Restore)
				admin.PUT("/users/:user_id/toggle_status", h.User.ToggleStatus)

				admin.POST("/analytics/refresh", h.Analytics.Refresh)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Admin + compliance officer routes
			officer := protected.Group("")
			officer.Use(middleware.RequireOfficer())
			{
				officer.GET("/users", h.User.Index)

				// Document review
				officer.POST("/documents/:document_id/approve", h.Document.Approve)
				officer.POST("/documents/:document_id/return", h.Document.Return)

				// Template management
				officer.POST("/templates", h.Template.Create)
				officer.PATCH("/templates/:template_id", h.Template.Update)
				officer.POST("/templates/:template_id/deactivate", h.Template.Deactivate)

				// Deadline management
				officer.POST("/deadlines", h.Deadline.Create)
				officer.DELETE("/deadlines/:deadline_id", h.Deadline.Delete)

				// System-wide audit log
				officer.GET("/audits", h.Audit.Index)
			}

			// Profile access
			protected.GET("/me", h.User.Me)
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)

			// Documents
			documents := protected.Group("/documents")
			{
				documents.GET("", h.Document.Index)
				documents.POST("", h.Document.Create)
				documents.GET("/:document_id", h.Document.Show)
				documents.PUT("/:document_id", h.Document.Update)
				documents.POST("/:document_id/submit", h.Document.Submit)
				documents.POST("/:document_id/archive", h.Document.Archive)
				documents.GET("/:document_id/versions", h.Document.Versions)
				documents.GET("/:document_id/audit", h.Document.AuditTrail)
				documents.GET("/:document_id/signatures", h.Document.Signatures)
				documents.POST("/:document_id/signatures", h.Document.Sign)
				documents.GET("/:document_id/export_pdf", h.Document.ExportPDF)
				documents.GET("/:document_id/certificate_pdf", h.Document.CertificatePDF)
				documents.GET("/:document_id/audit_csv", h.Document.AuditCSV)
			}

			// Templates (reading is open to all authenticated users)
			protected.GET("/templates", h.Template.Index)
			protected.GET("/templates/:template_id", h.Template.Show)

			// Deadlines
			protected.GET("/deadlines", h.Deadline.Index)
			protected.GET("/deadlines/:deadline_id", h.Deadline.Show)
			protected.PATCH("/deadlines/:deadline_id", h.Deadline.Update)

			// User files
			files := protected.Group("/user-documents")
			{
				files.GET("", h.UserFile.Index)
				files.POST("/upload", h.UserFile.Upload)
				files.POST("/bulk_upload", h.UserFile.BulkUpload)
				files.GET("/:file_id/download", h.UserFile.Download)
				files.PATCH("/:file_id/star", h.UserFile.Star)
				files.PATCH("/:file_id/category", h.UserFile.SetCategory)
				files.DELETE("/:file_id", h.UserFile.Delete)
			}

			// Analytics. Dashboard counters are per-user visible; the aggregate
			// reports are restricted to officers and admins.
			protected.GET("/dashboard/stats", h.Analytics.Dashboard)
			analytics := protected.Group("/analytics")
			analytics.Use(middleware.RequireOfficer())
			{
				analytics.GET("/overview", h.Analytics.Overview)
				analytics.GET("/categories", h.UserFile.Categories)
				analytics.GET("/export", h.Analytics.Export)
			}

			// Notifications
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/read", h.Notification.MarkAsRead)
				notifications.GET("/:notification_id", h.Notification.Show)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Expire active documents past their expiry date every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Expiring overdue documents...")
		return svcs.Document.ExpireOverdue(ctx)
	})

	// Notify assignees of overdue deadlines every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue deadlines...")
		return svcs.Deadline.NotifyOverdue(ctx)
	})

	// Refresh analytics cache every 15 minutes
	worker.ScheduleEvery(15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing analytics cache...")
		return svcs.Analytics.RefreshCache(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
