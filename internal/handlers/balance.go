package handlers

import (
	"paygate/internal/middleware"
	"paygate/internal/services/ledger"
	"paygate/internal/utils/pagination"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type BalanceHandler struct {
	ledger ledger.Service
}

func NewBalanceHandler(ledgerSvc ledger.Service) *BalanceHandler {
	return &BalanceHandler{ledger: ledgerSvc}
}

// GetBalance handles GET /api/balance.
func (h *BalanceHandler) GetBalance(c *fiber.Ctx) error {
	merchant := middleware.MerchantFrom(c)

	bal, err := h.ledger.GetBalance(c.Context(), merchant.ID)
	if err != nil {
		return response.Domain(c, err)
	}
	return c.JSON(fiber.Map{
		"balance":          bal.Balance,
		"lockedBalance":    bal.LockedBalance,
		"availableBalance": bal.Available(),
	})
}

// GetHistory handles GET /api/balance/history?page&limit.
func (h *BalanceHandler) GetHistory(c *fiber.Ctx) error {
	merchant := middleware.MerchantFrom(c)
	p := pagination.ParseFromRequest(c)

	entries, total, err := h.ledger.GetHistory(c.Context(), merchant.ID, p.Limit, p.Offset)
	if err != nil {
		return response.Domain(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, entries))
}
