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

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-gateway/internal/api"
	"github.com/akylbek/payment-system/payment-gateway/internal/bank"
	"github.com/akylbek/payment-system/payment-gateway/internal/cache"
	"github.com/akylbek/payment-system/payment-gateway/internal/config"
	"github.com/akylbek/payment-system/payment-gateway/internal/events"
	"github.com/akylbek/payment-system/payment-gateway/internal/handlers"
	"github.com/akylbek/payment-system/payment-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/payment-gateway/internal/ledger"
	"github.com/akylbek/payment-system/payment-gateway/internal/service"
	"github.com/akylbek/payment-system/payment-gateway/internal/telemetry"
	"github.com/akylbek/payment-system/payment-gateway/internal/validation"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize telemetry
	if err := telemetry.Init("payment-gateway"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Payment Gateway")

	// Pick the ledger: PostgreSQL when configured, in-memory otherwise
	var paymentLedger interfaces.PaymentLedger
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		pg := ledger.NewPostgresLedger(db)
		if err := pg.InitDB(); err != nil {
			telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		paymentLedger = pg
		telemetry.Logger.Info("Using PostgreSQL ledger")
	} else {
		paymentLedger = ledger.NewMemoryLedger()
		telemetry.Logger.Info("Using in-memory ledger")
	}

	telemetry.RegisterLedgerSize(func() float64 {
		count, err := paymentLedger.Count(context.Background())
		if err != nil {
			return 0
		}
		return float64(count)
	})

	// Optional Redis lookup cache
	var paymentCache *cache.PaymentCache
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		paymentCache = cache.NewPaymentCache(redisClient)
	}

	// Optional Kafka status publisher
	var publisher interfaces.StatusPublisher
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaStatusPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Optional NATS reconciliation notifier
	var reconciler interfaces.ReconciliationNotifier
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer nc.Close()
		reconciler = events.NewNatsReconcileNotifier(nc)
	}

	// Acquiring bank client and orchestrator
	bankClient := bank.NewClient(cfg.BankBaseURL, cfg.BankPaymentRoute, cfg.BankTimeout, telemetry.Logger)
	orchestrator := service.NewOrchestrator(paymentLedger, bankClient, publisher, reconciler, telemetry.Logger)

	// HTTP surface
	validator := validation.NewValidator(validation.DefaultCurrencies())
	paymentHandler := handlers.NewPaymentHandler(orchestrator, validator, paymentCache, telemetry.Logger)
	router := api.NewRouter(paymentHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Payment Gateway starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
