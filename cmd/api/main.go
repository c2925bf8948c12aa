package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ronnysenna/envio-massa-sub000/internal/api"
	"github.com/ronnysenna/envio-massa-sub000/internal/api/handlers"
	"github.com/ronnysenna/envio-massa-sub000/internal/auth"
	"github.com/ronnysenna/envio-massa-sub000/internal/config"
	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/health"
	"github.com/ronnysenna/envio-massa-sub000/internal/importer"
	"github.com/ronnysenna/envio-massa-sub000/internal/logger"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"
	"github.com/ronnysenna/envio-massa-sub000/internal/scheduler"
	"github.com/ronnysenna/envio-massa-sub000/internal/service"
	"github.com/ronnysenna/envio-massa-sub000/internal/storage"
	"github.com/ronnysenna/envio-massa-sub000/internal/webhook"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load and validate configuration first (before logger)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger with configuration
	logger.Init(cfg.Logger)

	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Msg("configuration loaded successfully")

	// Run migrations before connecting to database
	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize database
	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("database connected successfully")

	// Initialize file storage for uploaded images
	store, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	contactRepo := repository.NewContactRepository(database)
	groupRepo := repository.NewGroupRepository(database)
	imageRepo := repository.NewImageRepository(database)
	campaignRepo := repository.NewCampaignRepository(database)

	// Initialize services
	conflictPolicy := importer.ConflictPolicy(cfg.Import.ConflictPolicy)
	importService := service.NewImportService(contactRepo, conflictPolicy)
	contactService := service.NewContactService(contactRepo, conflictPolicy)
	sender := webhook.NewHTTPSender(cfg.Webhook)
	campaignService := service.NewCampaignService(
		campaignRepo, contactRepo, groupRepo, imageRepo, sender, cfg.Upload.PublicPath,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, sessionRepo, cfg.Auth.SessionTTL)
	contactHandler := handlers.NewContactHandler(contactService)
	importHandler := handlers.NewImportHandler(importService)
	groupHandler := handlers.NewGroupHandler(groupRepo, contactRepo)
	imageHandler := handlers.NewImageHandler(imageRepo, store, cfg.Upload.MaxSizeMB, cfg.Upload.PublicPath)
	campaignHandler := handlers.NewCampaignHandler(campaignService)

	// Initialize and start the session cleanup scheduler
	cronScheduler := scheduler.NewScheduler(sessionRepo, cfg.Auth.CleanupSchedule)
	if err := cronScheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer cronScheduler.Stop()

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.ErrorHandlerMiddleware())

	// Health check endpoint
	healthChecker := health.NewHealthChecker(database, cfg.Database.HealthTimeout)
	router.GET("/health", healthChecker.Handler)

	// Serve uploaded images
	router.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)

	// Public auth routes
	router.POST("/api/v1/auth/register", authHandler.Register)
	router.POST("/api/v1/auth/login", authHandler.Login)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(auth.SessionMiddleware(sessionRepo))
	{
		v1.POST("/auth/logout", authHandler.Logout)

		// Contact routes
		contacts := v1.Group("/contacts")
		{
			contacts.POST("", contactHandler.Create)
			contacts.GET("", contactHandler.List)
			contacts.GET("/:id", contactHandler.Get)
			contacts.PUT("/:id", contactHandler.Update)
			contacts.DELETE("/:id", contactHandler.Delete)
			contacts.POST("/import", importHandler.ImportByRecords)
			contacts.POST("/import/file", importHandler.ImportByFile)
		}

		// Group routes
		groups := v1.Group("/groups")
		{
			groups.POST("", groupHandler.Create)
			groups.GET("", groupHandler.List)
			groups.GET("/:id", groupHandler.Get)
			groups.PUT("/:id", groupHandler.Rename)
			groups.DELETE("/:id", groupHandler.Delete)
			groups.GET("/:id/contacts", groupHandler.ListMembers)
			groups.POST("/:id/contacts", groupHandler.AddMember)
			groups.DELETE("/:id/contacts/:contactId", groupHandler.RemoveMember)
		}

		// Image routes
		images := v1.Group("/images")
		{
			images.POST("", imageHandler.Upload)
			images.GET("", imageHandler.List)
			images.DELETE("/:id", imageHandler.Delete)
		}

		// Campaign routes
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.Dispatch)
			campaigns.GET("", campaignHandler.List)
			campaigns.GET("/:id", campaignHandler.Get)
		}
	}

	// Start server with configured bind address
	addr := cfg.GetBindAddress()
	// Use a listener so we can discover the selected port when PORT=0
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	// Discover the actual port (useful when PORT=0)
	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		_ = ln.Close()
		logger.Fatal().Msg("failed to determine TCP address")
	}
	selectedPort := tcpAddr.Port

	srv := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		logger.Info().
			Int("port", selectedPort).
			Str("addr", cfg.Server.Host).
			Msg("starting server")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	// Give outstanding requests a configured timeout to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")

	// Print the selected port on graceful exit for supervising processes
	fmt.Printf("PORT=%d\n", selectedPort) //nolint:forbidigo // Intentional stdout output for supervisor
}
