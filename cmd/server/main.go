package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/config"
	"github.com/campaxis/camp-accommodation-backend/internal/database"
	"github.com/campaxis/camp-accommodation-backend/internal/handlers"
	"github.com/campaxis/camp-accommodation-backend/internal/middleware"
	"github.com/campaxis/camp-accommodation-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Camp Accommodation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Transactional repositories need the concrete sqlx handle
	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	if err := database.EnsureSchema(pgDB.DB); err != nil {
		logger.Fatalf("Failed to apply database schema: %v", err)
	}
	if err := database.EnsureDefaultAdmin(db, cfg.Security.DefaultAdminPassword, cfg.Security.BcryptCost); err != nil {
		logger.Fatalf("Failed to seed default admin: %v", err)
	}
	logger.Info("Database schema ready")

	// Initialize services and repositories
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	buildingRepo := database.NewBuildingRepository(pgDB.DB)
	floorRepo := database.NewFloorRepository(pgDB.DB)
	roomRepo := database.NewRoomRepository(pgDB.DB)
	bedRepo := database.NewBedRepository(pgDB.DB)
	allocationRepo := database.NewAllocationRepository(pgDB.DB, logger)
	userRepo := database.NewUserRepository(db)
	blacklistRepo := database.NewBlacklistRepository(db)
	contractorRepo := database.NewContractorRepository(db)
	dashboardRepo := database.NewDashboardRepository(db)
	adminRepo := database.NewAdminRepository(db)

	campHandler := handlers.NewCampHandler(buildingRepo, floorRepo, roomRepo, bedRepo, logger)
	allocationHandler := handlers.NewAllocationHandler(allocationRepo, userRepo, blacklistRepo, logger)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistRepo, logger)
	contractorHandler := handlers.NewContractorHandler(contractorRepo, logger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardRepo, logger)
	authHandler := handlers.NewAuthHandler(adminRepo, jwtService, cfg.Security.BcryptCost, logger)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Location hierarchy
		api.GET("/buildings", campHandler.ListBuildings)
		api.POST("/buildings", campHandler.CreateBuilding)
		api.PATCH("/buildings/:id/activate", campHandler.ActivateBuilding)
		api.PATCH("/buildings/:id/deactivate", campHandler.DeactivateBuilding)
		api.GET("/floors", campHandler.ListFloors)
		api.POST("/floors", campHandler.CreateFloor)
		api.GET("/rooms", campHandler.ListRooms)
		api.POST("/rooms", campHandler.CreateRoom)
		api.GET("/beds", campHandler.ListBeds)
		api.POST("/beds", campHandler.CreateBed)

		// Booking lifecycle
		api.POST("/allocations", allocationHandler.Create)
		api.GET("/allocations", allocationHandler.List)
		api.GET("/allocations/:id", allocationHandler.GetByID)
		api.PUT("/allocations/:id", allocationHandler.Update)
		api.POST("/allocations/:id/checkout", allocationHandler.Checkout)

		// Blacklist
		api.GET("/blacklist/all", blacklistHandler.List)
		api.GET("/blacklist/check/:userId", blacklistHandler.Check)
		api.POST("/blacklist/add", blacklistHandler.Add)
		api.DELETE("/blacklist/remove/:userId", blacklistHandler.Remove)

		// Reporting
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/vacancies", dashboardHandler.Vacancies)
			dashboard.GET("/all-contractors", dashboardHandler.ContractorHeadcounts)
			dashboard.GET("/summary", dashboardHandler.Summary)
		}

		api.GET("/contractors", contractorHandler.List)

		// Admin-only routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.POST("/auth/register", authHandler.Register)
			protected.GET("/auth/profile", authHandler.Profile)

			protected.POST("/contractors", contractorHandler.Create)

			camps := protected.Group("/camps")
			{
				camps.GET("/buildings", campHandler.ListBuildingSummaries)
				camps.DELETE("/buildings/:id", campHandler.DeleteBuilding)

				camps.POST("/floors/bulk", campHandler.AddFloors)
				camps.DELETE("/floors/:id", campHandler.DeleteFloor)

				camps.POST("/rooms/bulk", campHandler.AddRooms)
				camps.DELETE("/rooms/:id", campHandler.DeleteRoom)

				camps.POST("/beds/bulk", campHandler.AddBeds)
				camps.DELETE("/beds/:id", campHandler.DeleteBed)
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if adminCtx, exists := middleware.GetAdminContext(c); exists {
			fields["admin_id"] = adminCtx.AdminID
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
