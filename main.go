package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/config"
	"ms-marketplace/internal/database/migrations"
	"ms-marketplace/internal/events"
	events_api "ms-marketplace/internal/events/api"
	"ms-marketplace/internal/kafka"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/reporting"
	reporting_api "ms-marketplace/internal/reporting/api"
	"ms-marketplace/internal/roles"
	"ms-marketplace/internal/sales"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	if cfg.Database.DSN == "" {
		logger.Fatal("CONFIG", "POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func startConsumers(ctx context.Context, cfg *config.Config, ingestor *sales.Ingestor, logger *logger.Logger) {
	requiredTopics := []string{
		cfg.Kafka.Topics.SaleCompleted,
		cfg.Kafka.Topics.SaleRefunded,
	}
	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
		logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		logger.Info("KAFKA", "Required topics ensured successfully")
	}

	completed := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.SaleCompleted, cfg.Kafka.GroupID, logger)
	refunded := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.SaleRefunded, cfg.Kafka.GroupID, logger)

	go func() {
		defer completed.Close()
		completed.Start(ctx, ingestor.HandleCompleted)
	}()
	go func() {
		defer refunded.Close()
		refunded.Start(ctx, ingestor.HandleRefunded)
	}()

	logger.Info("KAFKA", "Sales ingestion consumers started")
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Marketplace Reporting Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("DATABASE", "Running schema migrations")
		runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
		if err := runner.MigrateUp(); err != nil {
			logger.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
	}

	reportCache := reporting.NewCache(redisClient, cfg.Reporting.CacheTTL)
	reportService := reporting.NewService(bunDB, cfg.Reporting)
	rolesDB := roles.NewDB(bunDB)
	catalogDB := events.NewDB(bunDB)
	salesDB := sales.NewDB(bunDB, cfg.Reporting.CommissionRate)
	ingestor := sales.NewIngestor(salesDB, reportCache, logger)

	if cfg.Kafka.Enabled {
		startConsumers(ctx, cfg, ingestor, logger)
	} else {
		logger.Warn("KAFKA", "Kafka disabled, sales ingestion consumers not started")
	}

	eventHandler := events_api.NewHandler(catalogDB, logger)
	reportHandler := reporting_api.NewHandler(reportService, rolesDB, reportCache, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		eventHandler.RegisterRoutes(r)
		logger.Info("ROUTER", "Public event catalog routes registered under /api/events")

		// --- Protected Routes ---
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware())
			logger.Info("AUTH", "JWT middleware applied to protected API routes")

			reportHandler.RegisterRoutes(r)
			logger.Info("ROUTER", "Sales report endpoint registered at /api/admin/analytics/sales")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", "🚀 Marketplace Reporting Service running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Marketplace Reporting Service shutdown complete")
	}
}
