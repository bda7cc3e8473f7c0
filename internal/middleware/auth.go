// Package middleware provides the request guards for the REST surface:
// merchant API-key authentication, the shared-secret check on the
// PSP-facing IPN endpoint, and the admin-key check on back-office routes.
package middleware

import (
	"crypto/subtle"

	"paygate/internal/models"
	"paygate/internal/services/auth"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderAPIKey    = "X-Api-Key"
	HeaderIPNSecret = "X-IPN-Secret"
	HeaderAdminKey  = "X-Admin-Key"

	merchantLocal = "merchant"
)

// RequireAPIKey resolves the X-Api-Key header to an active merchant and
// stores it on the request context.
func RequireAPIKey(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		merchant, err := authService.Authenticate(c.Context(), c.Get(HeaderAPIKey), c.IP())
		if err != nil {
			return response.Domain(c, err)
		}
		c.Locals(merchantLocal, merchant)
		return c.Next()
	}
}

// MerchantFrom returns the authenticated merchant set by RequireAPIKey.
func MerchantFrom(c *fiber.Ctx) *models.Merchant {
	merchant, _ := c.Locals(merchantLocal).(*models.Merchant)
	return merchant
}

// RequireIPNSecret guards the PSP-facing callback endpoint with a shared
// secret. Deployments should additionally restrict the source network;
// the secret closes the gap when they cannot.
func RequireIPNSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := c.Get(HeaderIPNSecret)
		if secret == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			return response.Unauthorized(c)
		}
		return c.Next()
	}
}

// RequireAdminKey guards back-office payout operations.
func RequireAdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := c.Get(HeaderAdminKey)
		if key == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			return response.Unauthorized(c)
		}
		return c.Next()
	}
}
