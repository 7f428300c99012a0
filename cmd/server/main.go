package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shareit-hub/service-booking/internal/application"
	"github.com/shareit-hub/service-booking/internal/config"
	catalogEvents "github.com/shareit-hub/service-booking/internal/events"
	"github.com/shareit-hub/service-booking/internal/handler"
	"github.com/shareit-hub/service-booking/internal/repository"
	"github.com/shareit-hub/service-booking/pkg/database"
	"github.com/shareit-hub/service-booking/pkg/health"
	"github.com/shareit-hub/service-booking/pkg/kafka"
	"github.com/shareit-hub/service-booking/pkg/logger"
	"github.com/shareit-hub/service-booking/pkg/metrics"
	"github.com/shareit-hub/service-booking/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics.Register()

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)

	// Initialize application services
	projector := application.NewBookingProjector(bookingRepo)
	eligibility := application.NewCommentEligibility(bookingRepo)
	bookingService := application.NewBookingService(
		bookingRepo,
		itemRepo,
		userRepo,
		database.NewTxManager(db),
		kafkaProducer,
		log,
	)
	queryService := application.NewBookingQueryService(bookingRepo, itemRepo, userRepo, log)
	itemService := application.NewItemService(itemRepo, userRepo, commentRepo, projector, log)
	commentService := application.NewCommentService(commentRepo, itemRepo, userRepo, eligibility, kafkaProducer, log)
	catalogService := application.NewCatalogService(itemRepo, userRepo, log)

	// Initialize and start catalog event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	catalogConsumer := catalogEvents.NewCatalogEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		catalogService,
		log,
	)
	defer func() { _ = catalogConsumer.Close() }()

	go func() {
		log.Info("starting catalog event consumer")
		if err := catalogConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("catalog event consumer error", zap.Error(err))
		}
	}()

	// Rate limiter: shared through Redis when configured, per-process otherwise
	var limiter middleware.RateLimiter
	if cfg.RedisConfig.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
			PoolSize: cfg.RedisConfig.PoolSize,
		})
		defer func() { _ = redisClient.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, rate limiter will fail open", zap.Error(err))
		}
		pingCancel()
		limiter = middleware.NewRedisRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	} else {
		limiter = middleware.NewLocalRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService, queryService)
	itemHandler := handler.NewItemHandler(itemService)
	commentHandler := handler.NewCommentHandler(commentService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.MetricsMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	api := router.Group("")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimitMiddleware(limiter, log))
	}
	bookingHandler.RegisterRoutes(api)
	itemHandler.RegisterRoutes(api)
	commentHandler.RegisterRoutes(api)

	// Register admin handler routes
	adminBookingHandler := handler.NewAdminBookingHandler(bookingService)
	adminBookingHandler.RegisterRoutes(api, cfg.AdminUserIDs)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
