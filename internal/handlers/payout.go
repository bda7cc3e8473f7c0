package handlers

import (
	"paygate/internal/middleware"
	"paygate/internal/services/payout"
	"paygate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PayoutHandler struct {
	service payout.Service
}

func NewPayoutHandler(service payout.Service) *PayoutHandler {
	return &PayoutHandler{service: service}
}

type createPayoutRequest struct {
	MerchantReference string  `json:"merchantReference"`
	Amount            float64 `json:"amount"`
	DestType          string  `json:"destType"`
	BankCode          string  `json:"bankCode"`
	WalletCode        string  `json:"walletCode"`
	AccountNumber     string  `json:"accountNumber"`
	AccountTitle      string  `json:"accountTitle"`
}

// CreatePayout handles POST /api/payouts.
func (h *PayoutHandler) CreatePayout(c *fiber.Ctx) error {
	merchant := middleware.MerchantFrom(c)

	var req createPayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	created, err := h.service.Request(c.Context(), merchant, payout.Request{
		Reference:     req.MerchantReference,
		Amount:        req.Amount,
		DestType:      req.DestType,
		BankCode:      req.BankCode,
		WalletCode:    req.WalletCode,
		AccountNumber: req.AccountNumber,
		AccountTitle:  req.AccountTitle,
	})
	if err != nil {
		return response.Domain(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payoutId": created.ID,
		"status":   created.Status,
	})
}

// GetPayout handles GET /api/payouts/:payoutId.
func (h *PayoutHandler) GetPayout(c *fiber.Ctx) error {
	merchant := middleware.MerchantFrom(c)

	found, err := h.service.Get(c.Context(), merchant.ID, c.Params("payoutId"))
	if err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "payout", found)
}

type payoutActionRequest struct {
	Reason  string `json:"reason"`
	Approve bool   `json:"approve"`
}

// HoldPayout handles POST /api/admin/payouts/:payoutId/hold.
func (h *PayoutHandler) HoldPayout(c *fiber.Ctx) error {
	var req payoutActionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := h.service.Hold(c.Context(), c.Params("payoutId"), req.Reason); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "payout on hold", nil)
}

// ResumePayout handles POST /api/admin/payouts/:payoutId/resume.
func (h *PayoutHandler) ResumePayout(c *fiber.Ctx) error {
	if err := h.service.Resume(c.Context(), c.Params("payoutId")); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "payout resumed", nil)
}

// FlagPayout handles POST /api/admin/payouts/:payoutId/flag.
func (h *PayoutHandler) FlagPayout(c *fiber.Ctx) error {
	var req payoutActionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := h.service.Flag(c.Context(), c.Params("payoutId"), req.Reason); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "payout flagged for review", nil)
}

// ReviewPayout handles POST /api/admin/payouts/:payoutId/review.
func (h *PayoutHandler) ReviewPayout(c *fiber.Ctx) error {
	var req payoutActionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request format")
	}
	if err := h.service.Review(c.Context(), c.Params("payoutId"), req.Approve, req.Reason); err != nil {
		return response.Domain(c, err)
	}
	return response.Success(c, "payout reviewed", nil)
}
