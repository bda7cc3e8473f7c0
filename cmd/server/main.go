// Package main is the entry point for the gateway server. It loads
// configuration, connects the backing store, wires every engine
// component explicitly, starts the background delivery and sweep loops,
// and serves the REST surface.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paygate/internal/config"
	"paygate/internal/repositories"
	"paygate/internal/repositories/cache"
	"paygate/internal/routes"
	"paygate/internal/services/audit"
	"paygate/internal/services/auth"
	"paygate/internal/services/checkout"
	"paygate/internal/services/ledger"
	"paygate/internal/services/outbox"
	"paygate/internal/services/payout"
	"paygate/internal/services/psp"
	"paygate/internal/services/scenario"
	"paygate/internal/services/verification"
	"paygate/internal/services/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour))
	sqlDB.SetConnMaxIdleTime(config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute))
	defer sqlDB.Close()

	var cacheSvc *cache.Service
	if host := config.GetEnv("REDIS_HOST", ""); host != "" {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     host,
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetIntEnv("REDIS_DB", 0),
		})
		cacheSvc = cache.NewService(client, 24*time.Hour)
		defer cacheSvc.Close()
	}

	// Repositories.
	merchantRepo := repositories.NewMerchantRepository(db)
	checkoutRepo := repositories.NewCheckoutRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	payoutRepo := repositories.NewPayoutRepository(db)
	outboxRepo := repositories.NewOutboxRepository(db)
	directoryRepo := repositories.NewDirectoryRepository(db)
	scenarioRepo := repositories.NewScenarioRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Scenario mappings are seed data, loaded once.
	mappings, err := scenarioRepo.ListMappings(context.Background())
	if err != nil {
		log.Fatalf("failed to load scenario mappings: %v", err)
	}
	resolver := scenario.NewResolver(mappings)

	// Services.
	auditSvc := audit.NewService(auditRepo)
	authSvc := auth.NewService(merchantRepo, cacheSvc, auditSvc)
	ledgerSvc := ledger.NewService(ledgerRepo, cacheSvc)
	tokens := checkout.NewTokenManager(
		config.GetEnv("CHECKOUT_TOKEN_SECRET", "paygate-dev-secret"),
		config.GetDurationEnv("CHECKOUT_TOKEN_TTL", 30*time.Minute),
	)
	checkoutSvc := checkout.NewService(checkoutRepo, resolver, ledgerSvc, tokens,
		config.GetEnv("BASE_URL", "http://localhost:3000"))
	payoutSvc := payout.NewService(payoutRepo, directoryRepo, ledgerSvc, psp.NewSimulator(), auditSvc,
		payout.Config{
			ProcessingDwell: config.GetDurationEnv("PAYOUT_PROCESSING_DWELL", 15*time.Minute),
		})
	verificationSvc := verification.NewService(directoryRepo)

	// Background loops: outbox relay and payout dwell sweep.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := webhook.NewDispatcher(config.GetDurationEnv("WEBHOOK_TIMEOUT", 10*time.Second))
	relay := outbox.NewRelay(outboxRepo, merchantRepo, dispatcher, outbox.Config{
		PollInterval: config.GetDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		MaxAttempts:  config.GetIntEnv("WEBHOOK_MAX_ATTEMPTS", 5),
		BackoffBase:  config.GetDurationEnv("WEBHOOK_BACKOFF_BASE", 5*time.Second),
	})
	go relay.Run(ctx)

	sweepInterval := config.GetDurationEnv("PAYOUT_SWEEP_INTERVAL", time.Minute)
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := payoutSvc.RequeueStale(ctx); err != nil {
					log.Printf("payout sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("payout sweep requeued %d payouts", n)
				}
			}
		}
	}()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, X-Api-Key",
		AllowMethods: "GET,POST,HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/ipn", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
	app.Use("/api/payment", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		DB:           db,
		Cache:        cacheSvc,
		Auth:         authSvc,
		Checkout:     checkoutSvc,
		Ledger:       ledgerSvc,
		Payout:       payoutSvc,
		Verification: verificationSvc,
		Directory:    directoryRepo,
		Outbox:       outboxRepo,
		IPNSecret:    config.GetEnv("IPN_SHARED_SECRET", ""),
		AdminKey:     config.GetEnv("ADMIN_API_KEY", ""),
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
