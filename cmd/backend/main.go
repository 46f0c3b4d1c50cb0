package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stockwatch-backend/pkg/api/middleware"
	"stockwatch-backend/pkg/api/routes/auth"     // Authentication route handlers
	"stockwatch-backend/pkg/api/routes/category" // Category management route handlers
	"stockwatch-backend/pkg/api/routes/product"  // Product management route handlers
	"stockwatch-backend/pkg/config"              // Application configuration
	"stockwatch-backend/pkg/database"            // Database connection and operations
	"stockwatch-backend/pkg/logger"              // Custom logging implementation
	"stockwatch-backend/pkg/maintenance"
	"stockwatch-backend/pkg/notify"
	"stockwatch-backend/pkg/retry"

	cors "github.com/OnlyNico43/gin-cors" // CORS middleware
	"github.com/gin-gonic/gin"            // Web framework
	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger" // Database logging
)

func main() {
	// Load application configuration with default values
	cfg := config.LoadDefaultConfig()

	// Initialize logger for the main package
	log := logger.NewLogger(os.Stdout, "Main", cfg.LogLevel, "System")

	var logLevel gormLogger.LogLevel
	// Configure application mode and database logging based on debug setting
	if !cfg.DebugMode {
		log.PrintfInfo("Starting in release mode")
		gin.SetMode(gin.ReleaseMode)
		logLevel = gormLogger.Silent
	} else {
		log.PrintfInfo("Starting in debug mode")
		gin.SetMode(gin.DebugMode)
		logLevel = gormLogger.Info
	}

	connectToDatabase := retry.WithRetry("database connection", func() (*database.DatabaseInst, error) {
		return database.NewDatabaseInst(cfg.DatabaseURL, &gorm.Config{
			Logger: gormLogger.Default.LogMode(logLevel),
		})
	}, log, nil)

	dbInst, err := connectToDatabase()
	if err != nil {
		log.PrintfError("Failed to connect to database: %s", err)
		panic(err)
	}

	// Run database migrations and (re)create the stored procedures
	if err := dbInst.Migrate(); err != nil {
		panic(err)
	}

	if err := dbInst.SeedAdminUser(cfg, log); err != nil {
		log.PrintfError("Failed to seed admin user: %s", err)
	}

	// Set up valkey connection
	connectValkeyClient := retry.WithRetry("valkey connection", func() (valkey.Client, error) {
		return valkey.NewClient(valkey.ClientOption{
			Username:    cfg.ValkeyUsername,
			Password:    cfg.ValkeyPassword,
			ClientName:  cfg.ValkeyClientName,
			InitAddress: []string{cfg.ValkeyURL},
		})
	}, log, nil)

	valkeyClient, err := connectValkeyClient()
	if err != nil {
		log.PrintfError("Failed to connect to Valkey: %s", err)
		panic(err)
	}

	// Bind all background work to the process lifetime
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the stock notification server. A bind failure keeps the HTTP API
	// running without the notify subsystem.
	notifyServer := notify.NewServer(cfg, logger.NewLogger(os.Stdout, "Notify", cfg.LogLevel, "System"))
	notifyStarted := true
	if err := notifyServer.Start(ctx); err != nil {
		log.PrintfError("Failed to start stock notification server: %s", err)
		notifyStarted = false
	}

	// Daily maintenance job
	scheduler := maintenance.NewScheduler(dbInst, notifyServer, logger.NewLogger(os.Stdout, "Maintenance", cfg.LogLevel, "System"), nil)
	go scheduler.Run(ctx)

	// Initialize Gin router with default middleware
	router := gin.New()

	// Configure trusted proxies for security
	if err := router.SetTrustedProxies(nil); err != nil {
		log.PrintfError("Could not set trusted proxies list")
		return
	}

	// Configure router path handling
	router.RedirectFixedPath = true     // Redirect to the correct path if case-insensitive match found
	router.RedirectTrailingSlash = true // Automatically handle trailing slashes

	// Set up CORS middleware
	log.PrintfInfo("Frontend URL for cors: %s", cfg.FrontendURL)
	router.Use(cors.CorsMiddleware(cors.Config{
		AllowedOrigins:   strings.Split(cfg.FrontendURL, ", "),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add middleware for database access, configuration, and panic recovery
	router.Use(middleware.DatabaseMiddleware(dbInst.GetClient()))
	router.Use(middleware.ConfigMiddleware(cfg))
	router.Use(middleware.ValkeyMiddleware(valkeyClient))
	router.Use(middleware.NotifierMiddleware(notifyServer))
	router.Use(gin.Recovery())

	// Register API endpoints by feature group
	productEndpoints := router.Group("/product")
	{
		log.PrintfInfo("Registering product endpoints")
		product.RegisterProductEndpoints(productEndpoints)
	}

	categoryEndpoints := router.Group("/category")
	{
		log.PrintfInfo("Registering category endpoints")
		category.RegisterCategoryEndpoints(categoryEndpoints)
	}

	authEndpoints := router.Group("/auth")
	{
		log.PrintfInfo("Registering auth endpoints")
		auth.RegisterAuthEndpoints(authEndpoints)
	}

	// Start the HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.BackendPort,
		Handler: router,
	}

	go func() {
		log.PrintfInfo("Starting server on port %s", cfg.BackendPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.PrintfError("Failed to start server: %s", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.PrintfInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.PrintfError("Failed to shut down HTTP server gracefully: %s", err)
	}

	if notifyStarted {
		notifyServer.Stop()
	}
}
