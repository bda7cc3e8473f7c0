// Package routes wires handlers onto the Fiber app. Service construction
// happens in cmd/server; routes only groups endpoints and applies the
// request guards.
package routes

import (
	"paygate/internal/handlers"
	"paygate/internal/middleware"
	"paygate/internal/repositories"
	"paygate/internal/repositories/cache"
	"paygate/internal/services/auth"
	"paygate/internal/services/checkout"
	"paygate/internal/services/ledger"
	"paygate/internal/services/payout"
	"paygate/internal/services/verification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Dependencies carries the constructed services into route setup.
type Dependencies struct {
	DB           *gorm.DB
	Cache        *cache.Service
	Auth         auth.Service
	Checkout     checkout.Service
	Ledger       ledger.Service
	Payout       payout.Service
	Verification verification.Service
	Directory    repositories.DirectoryRepository
	Outbox       repositories.OutboxRepository
	IPNSecret    string
	AdminKey     string
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)
	payoutHandler := handlers.NewPayoutHandler(deps.Payout)
	ipnHandler := handlers.NewIPNHandler(deps.Payout)
	balanceHandler := handlers.NewBalanceHandler(deps.Ledger)
	verificationHandler := handlers.NewVerificationHandler(deps.Verification)
	directoryHandler := handlers.NewDirectoryHandler(deps.Directory, deps.Cache)
	outboxHandler := handlers.NewOutboxHandler(deps.Outbox)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")

	// Hosted payment page completion; guarded by the checkout session
	// token, not by a merchant API key.
	api.Post("/payment/:checkoutId/complete", checkoutHandler.CompletePayment)

	// PSP-facing IPN endpoint.
	api.Post("/ipn/callback", middleware.RequireIPNSecret(deps.IPNSecret), ipnHandler.Callback)

	// Merchant endpoints.
	merchant := api.Group("", middleware.RequireAPIKey(deps.Auth))
	merchant.Post("/checkouts", checkoutHandler.CreateCheckout)
	merchant.Get("/checkouts/:checkoutId", checkoutHandler.GetCheckout)
	merchant.Post("/payouts", payoutHandler.CreatePayout)
	merchant.Get("/payouts/:payoutId", payoutHandler.GetPayout)
	merchant.Get("/balance", balanceHandler.GetBalance)
	merchant.Get("/balance/history", balanceHandler.GetHistory)
	merchant.Post("/verify-account", verificationHandler.VerifyAccount)
	merchant.Get("/directory", directoryHandler.GetDirectory)

	// Back-office payout operations.
	admin := api.Group("/admin", middleware.RequireAdminKey(deps.AdminKey))
	admin.Post("/payouts/:payoutId/hold", payoutHandler.HoldPayout)
	admin.Post("/payouts/:payoutId/resume", payoutHandler.ResumePayout)
	admin.Post("/payouts/:payoutId/flag", payoutHandler.FlagPayout)
	admin.Post("/payouts/:payoutId/review", payoutHandler.ReviewPayout)
	admin.Get("/events/failed", outboxHandler.ListFailedEvents)
}
