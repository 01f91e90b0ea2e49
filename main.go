package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shelfsensei/auth"
	"shelfsensei/cache"
	"shelfsensei/config"
	"shelfsensei/dashboard"
	"shelfsensei/db"
	"shelfsensei/events"
	"shelfsensei/logger"
	"shelfsensei/routes"
)

func main() {
	// Load configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger, err := logger.New(cfg.Logger, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	// Initialize database
	database, err := db.Open(cfg.Database, cfg.IsDevelopment(), appLogger)
	if err != nil {
		appLogger.Fatal("could not open database", zap.Error(err))
	}

	// Dashboard cache is optional
	var dashCache *cache.Cache
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		dashCache, err = cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DashboardTTL)
		cancel()
		if err != nil {
			appLogger.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
			dashCache = nil
		} else {
			defer dashCache.Close()
			appLogger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	dash, err := dashboard.NewService(database, dashCache, appLogger)
	if err != nil {
		appLogger.Fatal("could not start dashboard service", zap.Error(err))
	}

	hub := events.NewHub(appLogger)
	publisher := events.Logged(events.Multi{newBroker(cfg.Events, appLogger), hub}, appLogger)
	defer publisher.Close()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: routes.ErrorHandler(appLogger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.Middleware(appLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(app, routes.Deps{
		DB:        database,
		Auth:      auth.NewService(database, cfg.JWT.SecretKey, cfg.JWT.TTL),
		Dashboard: dash,
		Events:    publisher,
		Hub:       hub,
		Log:       appLogger,
		Config:    cfg,
	})

	go func() {
		appLogger.Info("starting http server", zap.String("port", cfg.Server.Port))
		if err := app.Listen(cfg.Server.Port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("shutdown failed", zap.Error(err))
	}
	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
	appLogger.Info("server stopped")
}

// newBroker returns the configured movement event broker. A broker that
// cannot be reached is logged and replaced by Noop.
func newBroker(cfg config.EventsConfig, log *zap.Logger) events.Publisher {
	switch cfg.Driver {
	case "kafka":
		k, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Warn("kafka unavailable, movement events not published", zap.Error(err))
			return events.Noop{}
		}
		log.Info("publishing movement events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return k
	case "amqp":
		a, err := events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn("amqp unavailable, movement events not published", zap.Error(err))
			return events.Noop{}
		}
		log.Info("publishing movement events to amqp", zap.String("exchange", cfg.AMQPExchange))
		return a
	}
	return events.Noop{}
}
