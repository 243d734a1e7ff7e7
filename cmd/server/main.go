package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareride/internal/config"
	"shareride/internal/handlers"
	"shareride/internal/middleware"
	"shareride/internal/repositories/mongodb"
	"shareride/internal/services"
	"shareride/internal/utils"
	"shareride/pkg/cache"
	"shareride/pkg/database"
	"shareride/pkg/logger"
	"shareride/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Security.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set; refusing to start without one")
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer db.Close()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db.Database); err != nil {
		cancelIndexes()
		log.WithError(err).Fatal("failed to ensure indexes")
	}
	cancelIndexes()

	var cacheService services.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			cacheService = redisCache
			defer redisCache.Close()
		}
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	driverRepo := mongodb.NewDriverRepository(db.Database, cacheService)
	rideRepo := mongodb.NewRideRepository(db.Database, cacheService)
	requestRepo := mongodb.NewRideRequestRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database)

	// Services
	fareService := services.NewFareService(cfg.App.Currency)
	notificationService := services.NewNotificationService(notificationRepo, log)
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, log)
	userService := services.NewUserService(userRepo, log)
	driverService := services.NewDriverService(driverRepo, userRepo, log)
	rideService := services.NewRideService(rideRepo, driverRepo, userRepo, requestRepo, fareService, notificationService, log)
	requestService := services.NewRideRequestService(requestRepo, rideRepo, driverRepo, fareService, notificationService, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService, cfg.Security.JWTSecret)
	userHandler := handlers.NewUserHandler(userService)
	rideHandler := handlers.NewRideHandler(rideService)
	requestHandler := handlers.NewRideRequestHandler(requestService)
	driverHandler := handlers.NewDriverHandler(driverService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.WithError(err).Warn("failed to set trusted proxies")
		}
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	api := router.Group(utils.APIBasePath)
	routes.SetupAuthRoutes(api, authHandler, cfg.Security.JWTSecret)
	routes.SetupUserRoutes(api, userHandler, cfg.Security.JWTSecret)
	routes.SetupRideRoutes(api, rideHandler, requestHandler, cfg.Security.JWTSecret)
	routes.SetupDriverRoutes(api, driverHandler, cfg.Security.JWTSecret)
	routes.SetupNotificationRoutes(api, notificationHandler, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server stopped")
}
